package testutil_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adibus/fleet/migrations"
	"github.com/adibus/fleet/testutil"
)

var fleetTables = []string{"buses", "bus_seats", "fares"}

// TestMigrations applies every migration, checks the fleet tables exist,
// then rolls all the way back and checks they are gone.
func TestMigrations(t *testing.T) {
	db := testutil.NewSQLDB(t)

	provider, err := migrations.NewProvider(db)
	require.NoError(t, err)

	ctx := context.Background()

	// Another package's TestMain may already have migrated this database.
	_, err = provider.DownTo(ctx, 0)
	require.NoError(t, err, "initial reset")

	results, err := provider.Up(ctx)
	require.NoError(t, err, "goose up")
	assert.Len(t, results, 2)

	for _, table := range fleetTables {
		assertTablePresence(t, db, table, true)
	}

	_, err = provider.DownTo(ctx, 0)
	require.NoError(t, err, "goose down-to 0")

	for _, table := range fleetTables {
		assertTablePresence(t, db, table, false)
	}

	// Leave the schema in place for packages that run after this one.
	_, err = provider.Up(ctx)
	require.NoError(t, err, "goose up again")
}

func assertTablePresence(t *testing.T, db *sql.DB, table string, want bool) {
	t.Helper()

	const q = `
		SELECT EXISTS (
			SELECT 1 FROM information_schema.tables
			WHERE table_schema = 'public'
			AND   table_name   = $1
		)`
	var exists bool
	err := db.QueryRowContext(context.Background(), q, table).Scan(&exists)
	require.NoError(t, err, "check table %q", table)
	assert.Equal(t, want, exists, "table %q presence", table)
}
