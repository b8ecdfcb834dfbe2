package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bookhaven/library-system/internal/app"
	"github.com/bookhaven/library-system/internal/pkg/config"
	"github.com/bookhaven/library-system/internal/seed"
)

func newSeedCmd(rt *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the demo accounts and sample books in an empty store",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if rt.cfg.Store == config.StoreMemory {
				rt.log.Warn().Msg("memory store is not persisted; use serve --seed to seed a running server")
			}
			a, err := app.New(ctx, rt.cfg, rt.log)
			if err != nil {
				return err
			}
			defer a.Close(ctx)

			seeded, err := a.Seeder().Run(ctx)
			if err != nil {
				return err
			}
			if !seeded {
				fmt.Fprintln(cmd.OutOrStdout(), "store already has data, nothing seeded")
				return nil
			}
			for _, acc := range seed.Accounts {
				fmt.Fprintf(cmd.OutOrStdout(), "%-10s %s / %s\n", acc.Role, acc.Email, acc.Password)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d books added\n", len(seed.Books))
			return nil
		},
	}
}
