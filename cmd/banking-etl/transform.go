// cmd/banking-etl/transform.go
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newTransformCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "transform",
		Short: "Run the transform stage only: clean, deduplicate, populate dimensions",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			app, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			result, err := app.transformer.Run(ctx)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Transformed %d rows, rejected %d (consumed %d staged rows)\n",
				result.Transformed, result.Rejected, result.Consumed())
			return nil
		},
	}
}
