package service_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aussiebroadwan/tasker/internal/api/store/drivers/sqlite"
	"github.com/aussiebroadwan/tasker/internal/api/store/drivers/sqlstore"
	"github.com/aussiebroadwan/tasker/pkg/cryptox"
	"github.com/aussiebroadwan/tasker/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	cryptox.SetPepper("test-pepper")
	os.Exit(m.Run())
}

func newTestStore(t *testing.T) *sqlstore.Store {
	t.Helper()
	s, err := sqlite.NewStore(filepath.Join(t.TempDir(), "tasker.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.ApplyMigrations())
	return s
}

func newTestSigner(t *testing.T) *jwtx.Signer {
	t.Helper()
	pem, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)
	signer, err := jwtx.NewSigner("test", pem)
	require.NoError(t, err)
	return signer
}
