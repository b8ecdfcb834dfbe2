package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bookhaven/library-system/internal/app"
)

func newSweepCmd(rt *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Mark active loans past their due date as overdue",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := app.New(ctx, rt.cfg, rt.log)
			if err != nil {
				return err
			}
			defer a.Close(ctx)

			n, err := a.SweepNow(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d records marked overdue\n", n)
			return nil
		},
	}
}
