package cryptox_test

import (
	"crypto/ed25519"
	"crypto/x509"
	"encoding/pem"
	"path/filepath"
	"testing"

	"github.com/aussiebroadwan/tasker/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestGenerateEd25519Key(t *testing.T) {
	pemBytes, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)

	block, _ := pem.Decode(pemBytes)
	require.NotNil(t, block)
	require.Equal(t, "PRIVATE KEY", block.Type)

	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	require.NoError(t, err)

	key, ok := parsed.(ed25519.PrivateKey)
	require.True(t, ok)
	require.Len(t, key, ed25519.PrivateKeySize)
}

func TestLoadOrGenerateEd25519Key(t *testing.T) {
	t.Run("ephemeral", func(t *testing.T) {
		a, generated, err := cryptox.LoadOrGenerateEd25519Key("")
		require.NoError(t, err)
		require.True(t, generated)

		b, _, err := cryptox.LoadOrGenerateEd25519Key("")
		require.NoError(t, err)
		require.NotEqual(t, a, b)
	})

	t.Run("persisted", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "keys", "signing.pem")

		first, generated, err := cryptox.LoadOrGenerateEd25519Key(file)
		require.NoError(t, err)
		require.True(t, generated)

		second, generated, err := cryptox.LoadOrGenerateEd25519Key(file)
		require.NoError(t, err)
		require.False(t, generated)
		require.Equal(t, first, second)
	})
}
