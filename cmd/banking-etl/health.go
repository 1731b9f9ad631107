// cmd/banking-etl/health.go
package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newHealthCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Verify the warehouse connection and required schema objects",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			app, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.conn.Validate(ctx); err != nil {
				return err
			}

			required, healthErr := app.conn.HealthCheck(ctx, app.cfg.Pipeline)

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"Schema", "Table", "Exists"})
			for _, obj := range required {
				t.AppendRow(table.Row{obj.Schema, obj.Table, obj.Exists})
			}
			t.Render()

			if healthErr != nil {
				return healthErr
			}

			fmt.Fprintln(cmd.OutOrStdout(), "\nWarehouse is healthy")
			return nil
		},
	}
}
