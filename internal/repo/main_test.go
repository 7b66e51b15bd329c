package repo_test

import (
	"context"
	"io"
	"log"
	"log/slog"
	"os"
	"testing"

	"github.com/pkordes/trip-planner/backend/migrations"
)

// TestMain migrates the test database once for the whole package when
// TEST_DATABASE_URL is set. The pgxmock tests run either way.
func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		os.Exit(m.Run())
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if err := migrations.Up(context.Background(), dsn, logger); err != nil {
		log.Fatalf("TestMain: run migrations: %v", err)
	}

	os.Exit(m.Run())
}
