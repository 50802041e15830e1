//go:build integration

package db

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/application-tracker/internal/types"
)

func getTestDB(t *testing.T) *DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	db, err := Connect(ctx, dsn)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	_, _ = db.pool.Exec(ctx, "DELETE FROM applications WHERE company_name LIKE 'IntegrationCo%'")
	return db
}

// =============================================================================
// Application Integration Tests
// =============================================================================

func TestIntegration_Application_Lifecycle(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()
	ctx := context.Background()

	url := "https://integration.example/jobs/1"
	input := &types.NewApplication{
		CompanyName: "IntegrationCo Lifecycle",
		Position:    "Platform Engineer",
		DateApplied: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		URL:         &url,
		Status:      types.StatusPending,
	}

	created, err := db.InsertApplication(ctx, input)
	require.NoError(t, err)
	require.Positive(t, created.ID)

	t.Run("get round-trips nulls and date", func(t *testing.T) {
		got, err := db.GetApplication(ctx, created.ID)
		require.NoError(t, err)
		assert.Nil(t, got.Notes)
		require.NotNil(t, got.URL)
		assert.Equal(t, url, *got.URL)
		assert.Equal(t, input.DateApplied, got.DateApplied)
		assert.Equal(t, types.StatusPending, got.Status)
	})

	t.Run("archive twice is idempotent", func(t *testing.T) {
		require.NoError(t, db.SetApplicationStatus(ctx, created.ID, types.StatusArchived))
		require.NoError(t, db.SetApplicationStatus(ctx, created.ID, types.StatusArchived))

		got, err := db.GetApplication(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, types.StatusArchived, got.Status)
	})

	t.Run("delete then not found", func(t *testing.T) {
		require.NoError(t, db.DeleteApplication(ctx, created.ID))

		err := db.DeleteApplication(ctx, created.ID)
		assert.True(t, errors.Is(err, ErrNotFound))

		err = db.SetApplicationStatus(ctx, created.ID, types.StatusPending)
		assert.True(t, errors.Is(err, ErrNotFound))

		_, err = db.GetApplication(ctx, created.ID)
		assert.True(t, errors.Is(err, ErrNotFound))
	})
}

func TestIntegration_Application_DeleteMissingKeepsCount(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()
	ctx := context.Background()

	before, err := db.CountApplications(ctx)
	require.NoError(t, err)

	err = db.DeleteApplication(ctx, 1<<40)
	assert.ErrorIs(t, err, ErrNotFound)

	after, err := db.CountApplications(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestIntegration_Application_IDsNotReused(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()
	ctx := context.Background()

	input := &types.NewApplication{
		CompanyName: "IntegrationCo Ids",
		Position:    "Engineer",
		DateApplied: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		Status:      types.StatusPending,
	}

	first, err := db.InsertApplication(ctx, input)
	require.NoError(t, err)
	require.NoError(t, db.DeleteApplication(ctx, first.ID))

	second, err := db.InsertApplication(ctx, input)
	require.NoError(t, err)
	defer db.DeleteApplication(ctx, second.ID) //nolint:errcheck

	assert.Greater(t, second.ID, first.ID)

	apps, err := db.ListApplications(ctx)
	require.NoError(t, err)
	for _, app := range apps {
		assert.True(t, app.Status.Valid())
	}
}
