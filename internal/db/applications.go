package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jonathan/application-tracker/internal/types"
)

// -----------------------------------------------------------------------------
// Application Methods
// -----------------------------------------------------------------------------

const applicationColumns = `id, company_name, position, date_applied, notes, status::text, url`

// InsertApplication stores a new record and returns it with its assigned id
func (db *DB) InsertApplication(ctx context.Context, n *types.NewApplication) (*types.Application, error) {
	var id int64
	err := db.pool.QueryRow(ctx,
		`INSERT INTO applications (company_name, position, date_applied, notes, status, url)
		 VALUES ($1, $2, $3, $4, $5::text::application_status, $6)
		 RETURNING id`,
		n.CompanyName, n.Position, n.DateApplied, n.Notes, string(n.Status), n.URL,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("failed to insert application: %w", err)
	}

	app := n.Record(id)
	return &app, nil
}

// SetApplicationStatus updates the status of one record. Setting the current
// status again still matches the row and succeeds.
func (db *DB) SetApplicationStatus(ctx context.Context, id int64, status types.Status) error {
	tag, err := db.pool.Exec(ctx,
		`UPDATE applications SET status = $1::text::application_status WHERE id = $2`,
		string(status), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update application status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteApplication permanently removes one record
func (db *DB) DeleteApplication(ctx context.Context, id int64) error {
	tag, err := db.pool.Exec(ctx, `DELETE FROM applications WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete application: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// GetApplication retrieves a record by id
func (db *DB) GetApplication(ctx context.Context, id int64) (*types.Application, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE id = $1`, id)

	app, err := scanApplication(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	return app, nil
}

// ListApplications retrieves every record in id order
func (db *DB) ListApplications(ctx context.Context) ([]types.Application, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+applicationColumns+` FROM applications ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

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

// CountApplications returns the number of stored records
func (db *DB) CountApplications(ctx context.Context) (int, error) {
	var n int
	if err := db.pool.QueryRow(ctx, `SELECT COUNT(*) FROM applications`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count applications: %w", err)
	}
	return n, nil
}

func scanApplication(row pgx.Row) (*types.Application, error) {
	var app types.Application
	var status string
	if err := row.Scan(&app.ID, &app.CompanyName, &app.Position, &app.DateApplied,
		&app.Notes, &status, &app.URL); err != nil {
		return nil, err
	}
	app.Status = types.Status(status)
	app.DateApplied = app.DateApplied.UTC()
	return &app, nil
}
