package testutil_test

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-planner/backend/migrations"
	"github.com/pkordes/trip-planner/backend/testutil"
)

var schemaTables = []string{"accounts", "profiles", "trips", "itinerary_days", "chat_messages"}

// TestMigrations applies every migration, checks the schema, then rolls all
// of them back and checks the tables are gone.
// Skipped when TEST_DATABASE_URL is not set.
func TestMigrations(t *testing.T) {
	db := testutil.NewSQLDB(t)

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	require.NoError(t, err, "create goose provider")

	ctx := context.Background()

	// Other packages' TestMain may have migrated this database already.
	_, err = provider.DownTo(ctx, 0)
	require.NoError(t, err, "initial reset")

	results, err := provider.Up(ctx)
	require.NoError(t, err, "goose up")
	assert.Len(t, results, 3)

	for _, table := range schemaTables {
		assert.True(t, tableExists(t, db, table), "expected table %q to exist", table)
	}

	_, err = provider.DownTo(ctx, 0)
	require.NoError(t, err, "goose down-to 0")

	for _, table := range schemaTables {
		assert.False(t, tableExists(t, db, table), "expected table %q to be dropped", table)
	}

	// Leave the schema in place for packages that run after this one.
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	require.NoError(t, migrations.Up(ctx, os.Getenv("TEST_DATABASE_URL"), logger), "migrations.Up")
	for _, table := range schemaTables {
		assert.True(t, tableExists(t, db, table), "expected table %q after migrations.Up", table)
	}
	require.NoError(t, migrations.Up(ctx, os.Getenv("TEST_DATABASE_URL"), logger), "second Up is a no-op")
}

func tableExists(t *testing.T, db *sql.DB, table string) bool {
	t.Helper()

	const q = `
		SELECT EXISTS (
			SELECT 1 FROM information_schema.tables
			WHERE table_schema = 'public'
			AND   table_name   = $1
		)`
	var exists bool
	err := db.QueryRowContext(context.Background(), q, table).Scan(&exists)
	require.NoError(t, err, "check table existence for %q", table)
	return exists
}
