package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	httpapi "github.com/i474232898/weather-outlook/internal/api/http"
	"github.com/i474232898/weather-outlook/internal/scheduler"
	"github.com/i474232898/weather-outlook/internal/store"
	"github.com/i474232898/weather-outlook/pkg/log"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		ctx, cfg, flushLog, err := setup(ctx)
		defer flushLog()
		if err != nil {
			return err
		}
		logger := log.FromCtx(ctx)

		deps, err := buildGraph(ctx, cfg)
		if err != nil {
			return err
		}

		// In-memory visits with configured retention.
		visits := store.NewMemoryStore(cfg.VisitMaxCount, cfg.VisitMaxAge)

		sched := scheduler.New(visits, cfg.SweepInterval)
		if err := sched.Start(ctx); err != nil {
			return err
		}
		defer sched.Stop()

		app := httpapi.NewApp(ctx, true)
		httpapi.RegisterRoutes(app, httpapi.NewHandler(deps.service, deps.opener, visits))

		go func() {
			logger.Info().Str("port", cfg.Port).Msg("starting weather-outlook")
			if err := app.Listen(":" + cfg.Port); err != nil {
				logger.Error().Err(err).Msg("fiber server stopped")
				stop()
			}
		}()

		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("error during shutdown")
		}
		logger.Info().Msg("weather-outlook has been shut down gracefully")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
