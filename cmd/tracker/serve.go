package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/application-tracker/internal/server"
	"github.com/jonathan/application-tracker/internal/server/ratelimit"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes the application list and its mutations, plus /health, /metrics and a /events stream.`,
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides PORT)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if servePort != 0 {
		a.cfg.Port = servePort
	}

	limiter := ratelimit.NewLimiter(ratelimit.Config{
		Enabled: a.cfg.RateLimitEnabled,
		Rules:   ratelimit.WriteRules(a.cfg.RateLimitWrites),
	})

	srv, err := server.New(server.Config{
		Addr:      a.cfg.Addr(),
		Service:   a.svc,
		Events:    a.events,
		Logger:    a.logger,
		Gatherer:  a.registry,
		Ping:      a.store.Ping,
		RateLimit: limiter,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	a.logger.Info("tracker ready",
		zap.String("driver", a.cfg.Driver),
		zap.Bool("rate_limit", a.cfg.RateLimitEnabled),
	)
	if err := srv.Start(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

