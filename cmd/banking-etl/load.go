// cmd/banking-etl/load.go
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hollis-data/banking-etl/pkg/pipeline"
)

func newLoadCommand() *cobra.Command {
	var batchID string

	cmd := &cobra.Command{
		Use:   "load",
		Short: "Run the load stage only: move cleaned rows into the fact table",
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

			result, err := app.loader.Run(ctx, batchID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Batch %s: loaded %d fact rows, marked %d cleaned rows\n",
				batchID, result.RowsLoaded, result.RowsMarked)
			for _, table := range []string{"dim_customers", "dim_products", "dim_branches", "dim_time"} {
				fmt.Fprintf(out, "  %s: %d rows\n", table, result.DimensionCounts[table])
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&batchID, "batch-id", "", "Batch identifier stamped on loaded facts (generated when empty)")

	return cmd
}
