//go:build integration

package testutil

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	pgdb "github.com/alanyang/taskboard/internal/adapter/postgres"
)

// SetupTestDB connects to the test database, applies the embedded migrations and
// empties both tables. It skips the test if TEST_DATABASE_URL is not set.
// Tests using it must not run in parallel.
func SetupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set: skipping integration test")
	}

	ctx := context.Background()
	pool, err := pgdb.Connect(ctx, url)
	if err != nil {
		t.Fatalf("connect to test DB: %v", err)
	}
	t.Cleanup(func() { pool.Close() })

	if err := pgdb.Migrate(ctx, pool); err != nil {
		t.Fatalf("migrate test DB: %v", err)
	}
	if _, err := pool.Exec(ctx, "TRUNCATE tasks, projects, processed_requests RESTART IDENTITY"); err != nil {
		t.Fatalf("truncate test DB: %v", err)
	}
	return pool
}
