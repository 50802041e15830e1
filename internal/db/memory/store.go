// Package memory provides an in-process application store used by tests and
// throwaway sessions.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/jonathan/application-tracker/internal/db"
	"github.com/jonathan/application-tracker/internal/types"
)

// Store keeps application records in a map keyed by id.
type Store struct {
	mu     sync.RWMutex
	nextID int64
	rows   map[int64]types.Application

	// FailWith, when set, is returned from every call. Tests use it to
	// simulate an unavailable database.
	FailWith error
}

// New returns an empty store whose first id is 1.
func New() *Store {
	return &Store{nextID: 1, rows: make(map[int64]types.Application)}
}

// Ping reports FailWith, if set.
func (s *Store) Ping(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.FailWith
}

// InsertApplication stores a copy of n under a fresh id.
func (s *Store) InsertApplication(_ context.Context, n *types.NewApplication) (*types.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWith != nil {
		return nil, s.FailWith
	}

	app := n.Record(s.nextID)
	app.Notes = nonEmpty(app.Notes)
	app.URL = nonEmpty(app.URL)
	s.nextID++
	s.rows[app.ID] = app

	out := app
	return &out, nil
}

// SetApplicationStatus changes the status of an existing record.
func (s *Store) SetApplicationStatus(_ context.Context, id int64, status types.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWith != nil {
		return s.FailWith
	}

	app, ok := s.rows[id]
	if !ok {
		return db.ErrNotFound
	}
	app.Status = status
	s.rows[id] = app
	return nil
}

// DeleteApplication removes a record. Its id is never handed out again.
func (s *Store) DeleteApplication(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWith != nil {
		return s.FailWith
	}

	if _, ok := s.rows[id]; !ok {
		return db.ErrNotFound
	}
	delete(s.rows, id)
	return nil
}

// GetApplication returns a copy of one record.
func (s *Store) GetApplication(_ context.Context, id int64) (*types.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.FailWith != nil {
		return nil, s.FailWith
	}

	app, ok := s.rows[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	return &app, nil
}

// ListApplications returns every record in id order.
func (s *Store) ListApplications(_ context.Context) ([]types.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.FailWith != nil {
		return nil, s.FailWith
	}

	apps := make([]types.Application, 0, len(s.rows))
	for _, app := range s.rows {
		apps = append(apps, app)
	}
	sort.Slice(apps, func(i, j int) bool { return apps[i].ID < apps[j].ID })
	return apps, nil
}

// CountApplications returns the number of stored records.
func (s *Store) CountApplications(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.FailWith != nil {
		return 0, s.FailWith
	}
	return len(s.rows), nil
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	v := *s
	return &v
}
