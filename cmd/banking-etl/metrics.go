// cmd/banking-etl/metrics.go
package main

import (
	"github.com/spf13/cobra"
)

func newMetricsCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "Show the most recent persisted quality metrics",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			app, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			records, err := app.store.RecentMetrics(ctx, limit)
			if err != nil {
				return err
			}

			renderMetricRecords(cmd.OutOrStdout(), records)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum number of metrics to show")

	return cmd
}
