// Package sqlite provides an embedded, file-backed store for application records
// built on the pure Go SQLite driver.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/jonathan/application-tracker/internal/db"
	"github.com/jonathan/application-tracker/internal/db/migrations"
	"github.com/jonathan/application-tracker/internal/types"
)

// dateLayout is how date_applied is persisted: no zone, always midnight.
const dateLayout = "2006-01-02 15:04:05"

const applicationColumns = `id, company_name, position, date_applied, notes, status, url`

// Store persists application records in a single SQLite table.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the SQLite database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		path = "applications.db"
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}

	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One connection keeps pragmas in effect and serializes writers.
	sqlDB.SetMaxOpenConns(1)

	for _, pragma := range []string{"PRAGMA foreign_keys = ON", "PRAGMA busy_timeout = 5000"} {
		if _, err := sqlDB.ExecContext(ctx, pragma); err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("sqlite %s: %w", pragma, err)
		}
	}

	return New(sqlDB), nil
}

// New wraps an already opened database handle.
func New(sqlDB *sql.DB) *Store {
	return &Store{db: sqlDB}
}

// Close releases the underlying handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping verifies the database file is still reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Migrate applies the embedded SQLite migrations.
func (s *Store) Migrate(ctx context.Context) error {
	return migrations.Up(ctx, s.db, migrations.DialectSQLite)
}

// InsertApplication stores a new record and returns it with its assigned id.
func (s *Store) InsertApplication(ctx context.Context, n *types.NewApplication) (*types.Application, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO applications (company_name, position, date_applied, notes, status, url)
		 VALUES (?, ?, ?, ?, ?, ?)
		 RETURNING id`,
		n.CompanyName, n.Position, n.DateApplied.UTC().Format(dateLayout),
		nullString(n.Notes), string(n.Status), nullString(n.URL),
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("failed to insert application: %w", err)
	}

	app := n.Record(id)
	return &app, nil
}

// SetApplicationStatus updates the status of one record.
func (s *Store) SetApplicationStatus(ctx context.Context, id int64, status types.Status) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE applications SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return fmt.Errorf("failed to update application status: %w", err)
	}
	return requireRow(res)
}

// DeleteApplication permanently removes one record.
func (s *Store) DeleteApplication(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM applications WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete application: %w", err)
	}
	return requireRow(res)
}

// GetApplication retrieves a record by id.
func (s *Store) GetApplication(ctx context.Context, id int64) (*types.Application, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE id = ?`, id)

	app, err := scanApplication(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, db.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	return app, nil
}

// ListApplications retrieves every record in id order.
func (s *Store) ListApplications(ctx context.Context) ([]types.Application, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+applicationColumns+` FROM applications ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer func() { _ = rows.Close() }()

	apps := []types.Application{}
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		apps = append(apps, *app)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return apps, nil
}

// CountApplications returns the number of stored records.
func (s *Store) CountApplications(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM applications`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count applications: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanApplication(row scanner) (*types.Application, error) {
	var (
		app         types.Application
		dateApplied string
		status      string
		notes, url  sql.NullString
	)
	if err := row.Scan(&app.ID, &app.CompanyName, &app.Position, &dateApplied, &notes, &status, &url); err != nil {
		return nil, err
	}

	d, err := time.Parse(dateLayout, dateApplied)
	if err != nil {
		return nil, fmt.Errorf("invalid date_applied %q for application %d: %w", dateApplied, app.ID, err)
	}
	app.DateApplied = d
	app.Status = types.Status(status)
	if notes.Valid {
		app.Notes = &notes.String
	}
	if url.Valid {
		app.URL = &url.String
	}
	return &app, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return db.ErrNotFound
	}
	return nil
}

func nullString(s *string) sql.NullString {
	if s == nil || *s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
