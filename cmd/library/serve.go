package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/bookhaven/library-system/internal/app"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(rt *rootOptions) *cobra.Command {
	var seed bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, loan workers and overdue scheduler",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), rt, seed)
		},
	}
	cmd.Flags().BoolVar(&seed, "seed", false, "seed demo data when the store is empty")
	return cmd
}

func serve(parent context.Context, rt *rootOptions, seed bool) error {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	a, err := app.New(ctx, rt.cfg, rt.log)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, done := context.WithTimeout(context.Background(), shutdownTimeout)
		defer done()
		if err := a.Close(closeCtx); err != nil {
			rt.log.Error().Err(err).Msg("close backends")
		}
	}()

	if seed {
		if _, err := a.Seeder().Run(ctx); err != nil {
			return err
		}
	}

	a.Loans.Start(ctx)
	go a.Scheduler.Run(ctx)

	e := a.Router()
	addr := ":" + rt.cfg.Port

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	errChan := make(chan error, 1)
	go func() {
		rt.log.Info().Str("addr", addr).Str("env", rt.cfg.Env).Msg("server listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case sig := <-sigChan:
		rt.log.Info().Str("signal", sig.String()).Msg("shutting down")
	case err = <-errChan:
		rt.log.Error().Err(err).Msg("server failed")
	}

	shutdownCtx, done := context.WithTimeout(context.Background(), shutdownTimeout)
	defer done()
	if shutdownErr := e.Shutdown(shutdownCtx); shutdownErr != nil {
		rt.log.Error().Err(shutdownErr).Msg("http shutdown")
	}
	cancel()
	return err
}
