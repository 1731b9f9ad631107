// cmd/banking-etl/quality.go
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hollis-data/banking-etl/pkg/model"
	"github.com/hollis-data/banking-etl/pkg/pipeline"
)

func newQualityCommand() *cobra.Command {
	var (
		batchID string
		deep    bool
	)

	cmd := &cobra.Command{
		Use:   "quality",
		Short: "Run the quality check battery against recent fact and cleaned rows",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			app, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			if batchID == "" {
				batchID = pipeline.NewBatchID()
			}

			var (
				passed  bool
				metrics []model.QualityMetric
			)
			if deep {
				passed, metrics, err = app.quality.RunDeep(ctx, batchID)
			} else {
				passed, metrics, err = app.quality.Run(ctx, batchID, nil)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			renderMetrics(out, metrics)

			if !passed {
				return fmt.Errorf("quality checks did not pass for batch %s", batchID)
			}

			fmt.Fprintf(out, "\nBatch %s: all quality checks passed\n", batchID)
			return nil
		},
	}

	cmd.Flags().StringVar(&batchID, "batch-id", "", "Batch identifier for the persisted metrics (generated when empty)")
	cmd.Flags().BoolVar(&deep, "deep", false, "Also run schema validation and referential integrity probes")

	return cmd
}
