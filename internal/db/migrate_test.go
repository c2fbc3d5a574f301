package db_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	intconfig "fleetfin/internal/config"
	intdb "fleetfin/internal/db"
)

func TestMigrate_SQLiteUpDown(t *testing.T) {
	ctx := context.Background()
	conn, err := intconfig.Open(intconfig.DriverSQLite, ":memory:")
	require.NoError(t, err)
	defer conn.Close()

	n, err := intdb.Migrate(ctx, conn, intconfig.DriverSQLite, "2024-01-01T00:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// second run is a no-op
	n, err = intdb.Migrate(ctx, conn, intconfig.DriverSQLite, "2024-01-01T00:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	versions, err := intdb.AppliedVersions(ctx, conn)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, versions)

	_, err = conn.ExecContext(ctx, `INSERT INTO drivers(name) VALUES('Ana')`)
	require.NoError(t, err)

	require.NoError(t, intdb.RollbackLast(ctx, conn, intconfig.DriverSQLite))
	versions, err = intdb.AppliedVersions(ctx, conn)
	require.NoError(t, err)
	assert.Empty(t, versions)

	_, err = conn.ExecContext(ctx, `SELECT 1 FROM drivers`)
	assert.Error(t, err)
}

func TestMigrate_UnknownDialect(t *testing.T) {
	conn, err := intconfig.Open(intconfig.DriverSQLite, ":memory:")
	require.NoError(t, err)
	defer conn.Close()

	_, err = intdb.Migrate(context.Background(), conn, "postgres", "")
	assert.Error(t, err)
}

func TestRollbackLast_NothingApplied(t *testing.T) {
	conn, err := intconfig.Open(intconfig.DriverSQLite, ":memory:")
	require.NoError(t, err)
	defer conn.Close()

	assert.NoError(t, intdb.RollbackLast(context.Background(), conn, intconfig.DriverSQLite))
}
