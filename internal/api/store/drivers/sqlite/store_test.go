package sqlite_test

import (
	"path/filepath"
	"testing"

	"github.com/aussiebroadwan/tasker/internal/api/store/drivers/sqlite"
	"github.com/aussiebroadwan/tasker/internal/api/store/storetest"
	"github.com/stretchr/testify/require"
)

func TestSQLiteStore(t *testing.T) {
	s, err := sqlite.NewStore(filepath.Join(t.TempDir(), "tasker.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	// Applying twice is a no-op.
	require.NoError(t, s.ApplyMigrations())

	storetest.Run(t, s)
}

func TestDSN(t *testing.T) {
	dsn := sqlite.DSN("/tmp/x.db")
	require.Contains(t, dsn, "file:/tmp/x.db?")
	require.Contains(t, dsn, "_txlock=immediate")
	require.Equal(t, "file:already.db", sqlite.DSN("file:already.db"))
}
