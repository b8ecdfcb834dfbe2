package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/bookhaven/library-system/internal/pkg/config"
	"github.com/bookhaven/library-system/pkg/logger"
)

const serviceName = "library-system"

// rootOptions is filled by the root command before any subcommand runs.
type rootOptions struct {
	envFile string
	cfg     *config.Config
	log     zerolog.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rt := &rootOptions{}

	root := &cobra.Command{
		Use:           "library",
		Short:         "Library management service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return rt.load(cmd.Context())
		},
	}
	root.PersistentFlags().StringVar(&rt.envFile, "env-file", ".env", "optional dotenv file loaded before reading the environment")

	root.AddCommand(
		newServeCmd(rt),
		newSeedCmd(rt),
		newSweepCmd(rt),
	)
	return root
}

func (rt *rootOptions) load(ctx context.Context) error {
	if err := godotenv.Load(rt.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", rt.envFile, err)
	}

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	rt.cfg = cfg
	rt.log = logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: serviceName,
	})
	return nil
}
