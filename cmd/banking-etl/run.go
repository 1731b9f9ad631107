// cmd/banking-etl/run.go
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRunCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the full pipeline: validate, transform, load, smoke, quality",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			app, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			report, err := app.pipeline.Run(ctx)
			if report != nil && len(report.Steps) > 0 {
				renderSteps(cmd.OutOrStdout(), report.Steps)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "\nBatch %s finished with status %s\n", report.BatchID, report.Status)
			fmt.Fprintf(out, "Transformed %d rows, rejected %d, loaded %d facts\n",
				report.Transform.Transformed, report.Transform.Rejected, report.Load.RowsLoaded)

			if len(report.Metrics) > 0 {
				fmt.Fprintln(out)
				renderMetrics(out, report.Metrics)
			}

			return nil
		},
	}
}
