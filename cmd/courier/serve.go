package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aretw0/courier/internal/cli"
	httpAdapter "github.com/aretw0/courier/pkg/adapters/http"
	"github.com/aretw0/courier/pkg/domain"
	"github.com/aretw0/courier/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Starts the courier engine in server mode, exposing route planning and
session playback over HTTP with Server-Sent Events.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.HTTP.Port, _ = cmd.Flags().GetInt("port")
		}
		if cmd.Flags().Changed("metrics") {
			cfg.Metrics.Enabled, _ = cmd.Flags().GetBool("metrics")
		}

		logger, err := cli.CreateLogger(cfg, debugEnabled(cmd))
		if err != nil {
			return err
		}

		sessions, closeStore, err := cli.CreateSessions(cfg, logger)
		if err != nil {
			return err
		}
		defer closeStore()

		aggregator := observability.NewAggregator()
		hooks := []domain.LifecycleHooks{aggregator.Hooks()}
		opts := []httpAdapter.Option{
			httpAdapter.WithLogger(logger),
			httpAdapter.WithSessions(sessions),
			httpAdapter.WithAggregator(aggregator),
		}

		if cfg.Metrics.Enabled {
			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
			hooks = append(hooks, observability.NewMetrics(reg).Hooks())
			opts = append(opts, httpAdapter.WithMetrics(reg))
		}

		engine := cli.CreateEngine(cfg, logger, debugEnabled(cmd), hooks...)
		server := httpAdapter.NewServer(engine, opts...)
		defer server.Shutdown()

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
			Handler:           server.Handler(),
			ReadHeaderTimeout: 5 * time.Second,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("Starting courier server", "address", srv.Addr, "store", cfg.Store, "metrics", cfg.Metrics.Enabled)
			serverErrors <- srv.ListenAndServe()
		}()

		select {
		case err := <-serverErrors:
			return fmt.Errorf("server error: %w", err)

		case <-cmd.Context().Done():
			logger.Info("Shutdown signal received, shutting down server...")

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				logger.Error("Graceful shutdown did not complete", "timeout", 5*time.Second, "error", err)
				if err := srv.Close(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("error killing server: %w", err)
				}
			}
			logger.Info("Courier server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on (overrides config)")
	serveCmd.Flags().Bool("metrics", false, "Expose Prometheus metrics on /metrics (overrides config)")
}
