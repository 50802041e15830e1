package main

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/jonathan/application-tracker/internal/config"
	"github.com/jonathan/application-tracker/internal/db"
	"github.com/jonathan/application-tracker/internal/db/memory"
	"github.com/jonathan/application-tracker/internal/db/sqlite"
	"github.com/jonathan/application-tracker/internal/observability"
	"github.com/jonathan/application-tracker/internal/tracker"
)

// store is what every command needs from a storage driver.
type store interface {
	tracker.Store
	Ping(ctx context.Context) error
}

// app bundles the pieces a command runs against.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	store    store
	svc      *tracker.Service
	events   *tracker.Broadcaster
	registry *prometheus.Registry
	closers  []func()
}

// openApp loads configuration, opens and migrates the configured store and
// builds the tracker service on top of it.
func openApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	logger, err := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	a := &app{
		cfg:      cfg,
		logger:   logger,
		events:   tracker.NewBroadcaster(16),
		registry: prometheus.NewRegistry(),
	}
	a.closers = append(a.closers, func() { _ = logger.Sync() })

	if err := a.openStore(ctx); err != nil {
		a.Close()
		return nil, err
	}

	a.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	a.svc, err = tracker.New(tracker.Config{
		Store:    a.store,
		Notifier: a.events,
		Logger:   logger,
		Metrics:  tracker.NewMetrics(a.registry),
		Now:      func() time.Time { return time.Now().In(loc) },
	})
	if err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *app) openStore(ctx context.Context) error {
	log := a.logger.With(zap.String("driver", a.cfg.Driver))

	switch a.cfg.Driver {
	case config.DriverSQLite:
		s, err := sqlite.Open(ctx, a.cfg.SQLitePath)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, func() { _ = s.Close() })
		if err := s.Migrate(ctx); err != nil {
			return err
		}
		a.store = s
		log.Debug("sqlite store ready", zap.String("path", a.cfg.SQLitePath))

	case config.DriverPostgres:
		d, err := db.Connect(ctx, a.cfg.DatabaseURL)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, d.Close)
		if err := d.Migrate(ctx); err != nil {
			return err
		}
		a.store = d
		log.Debug("postgres store ready")

	case config.DriverMemory:
		a.store = memory.New()
		log.Debug("memory store ready")

	default:
		return fmt.Errorf("unknown driver %q", a.cfg.Driver)
	}
	return nil
}

// Close releases the store and flushes the logger, newest first.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
