// Package tracker is the only path by which application records are created,
// moved between the pending and archived lists, or deleted.
package tracker

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/application-tracker/internal/query"
	"github.com/jonathan/application-tracker/internal/types"
	"github.com/jonathan/application-tracker/internal/validation"
)

// Store is the record store a Service mutates. The PostgreSQL, SQLite and
// in-memory stores all satisfy it. Zero affected rows must be reported as
// db.ErrNotFound.
type Store interface {
	InsertApplication(ctx context.Context, n *types.NewApplication) (*types.Application, error)
	SetApplicationStatus(ctx context.Context, id int64, status types.Status) error
	DeleteApplication(ctx context.Context, id int64) error
	ListApplications(ctx context.Context) ([]types.Application, error)
}

// Config wires a Service. Only Store is required.
type Config struct {
	Store    Store
	Notifier Notifier
	Logger   *zap.Logger
	Metrics  *Metrics
	// Now anchors default dates and date buckets. Defaults to time.Now.
	Now func() time.Time
}

// Service validates mutations, applies them to the store and announces them.
type Service struct {
	store    Store
	notifier Notifier
	logger   *zap.Logger
	metrics  *Metrics
	now      func() time.Time
}

// New creates a Service from cfg.
func New(cfg Config) (*Service, error) {
	if cfg.Store == nil {
		return nil, errors.New("tracker: store is required")
	}

	s := &Service{
		store:    cfg.Store,
		notifier: cfg.Notifier,
		logger:   cfg.Logger,
		metrics:  cfg.Metrics,
		now:      cfg.Now,
	}
	if s.notifier == nil {
		s.notifier = nopNotifier{}
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.metrics == nil {
		s.metrics = NewMetrics(nil)
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s, nil
}

// Create validates raw and inserts it as a pending record.
func (s *Service) Create(ctx context.Context, raw validation.RawInput) (*types.Application, error) {
	done := s.metrics.start(OpCreate)

	n, err := validation.ValidateNewRecordAt(raw, s.now())
	if err != nil {
		return nil, s.fail(OpCreate, 0, err, done)
	}
	n.Status = types.StatusPending

	app, err := s.store.InsertApplication(ctx, n)
	if err != nil {
		return nil, s.fail(OpCreate, 0, err, done)
	}

	done(resultOK)
	s.logger.Info("application created",
		zap.Int64("id", app.ID),
		zap.String("company", app.CompanyName),
	)
	s.notifier.Notify(ctx, Event{Op: OpCreate, ID: app.ID, Status: app.Status})
	return app, nil
}

// UpdateStatus sets the status of record id. Setting the status it already has
// succeeds.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status string) error {
	return s.setStatus(ctx, OpUpdate, id, status)
}

// Archive moves record id to the archived list.
func (s *Service) Archive(ctx context.Context, id int64) error {
	return s.setStatus(ctx, OpArchive, id, string(types.StatusArchived))
}

// Unarchive moves record id back to the pending list.
func (s *Service) Unarchive(ctx context.Context, id int64) error {
	return s.setStatus(ctx, OpUnarchive, id, string(types.StatusPending))
}

func (s *Service) setStatus(ctx context.Context, op string, id int64, status string) error {
	done := s.metrics.start(op)

	if err := validation.ValidateID(id); err != nil {
		return s.fail(op, id, err, done)
	}
	st, err := validation.ValidateStatus(status)
	if err != nil {
		return s.fail(op, id, err, done)
	}

	if err := s.store.SetApplicationStatus(ctx, id, st); err != nil {
		return s.fail(op, id, err, done)
	}

	done(resultOK)
	s.logger.Info("application status updated",
		zap.String("op", op),
		zap.Int64("id", id),
		zap.String("status", string(st)),
	)
	s.notifier.Notify(ctx, Event{Op: op, ID: id, Status: st})
	return nil
}

// Delete permanently removes record id.
func (s *Service) Delete(ctx context.Context, id int64) error {
	done := s.metrics.start(OpDelete)

	if err := validation.ValidateID(id); err != nil {
		return s.fail(OpDelete, id, err, done)
	}
	if err := s.store.DeleteApplication(ctx, id); err != nil {
		return s.fail(OpDelete, id, err, done)
	}

	done(resultOK)
	s.logger.Info("application deleted", zap.Int64("id", id))
	s.notifier.Notify(ctx, Event{Op: OpDelete, ID: id})
	return nil
}

// List returns a fresh snapshot of every record.
func (s *Service) List(ctx context.Context) ([]types.Application, error) {
	apps, err := s.store.ListApplications(ctx)
	if err != nil {
		te := translate(OpList, err)
		s.logger.Error("failed to list applications", zap.Error(err))
		return nil, te
	}
	return apps, nil
}

// View lists every record and applies opts to the snapshot.
func (s *Service) View(ctx context.Context, opts query.Options) (*query.View, error) {
	apps, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return query.NewView(apps, opts, s.now()), nil
}

// Now returns the service clock.
func (s *Service) Now() time.Time {
	return s.now()
}

// fail translates err, records it and logs store failures at error level.
func (s *Service) fail(op string, id int64, err error, done func(result string)) error {
	te := translate(op, err)
	done(string(te.Kind))

	fields := []zap.Field{zap.String("op", op), zap.String("kind", string(te.Kind))}
	if id != 0 {
		fields = append(fields, zap.Int64("id", id))
	}
	if te.Kind == KindPersistence {
		s.logger.Error("application mutation failed", append(fields, zap.Error(err))...)
	} else {
		s.logger.Debug("application mutation rejected", append(fields, zap.String("reason", te.Message))...)
	}
	return te
}
