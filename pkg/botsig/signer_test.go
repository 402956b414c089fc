package botsig_test

import (
	"testing"

	"github.com/aussiebroadwan/tasker/pkg/botsig"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("shared-secret-for-tests")

func TestCanonicalMessage(t *testing.T) {
	msg := botsig.CanonicalMessage(1700000000, "get", "/api/whoami", nil)
	require.Equal(t,
		"1700000000.GET./api/whoami.e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		msg,
	)
}

func TestNewSignerRequiresSecret(t *testing.T) {
	_, err := botsig.NewSigner(nil)
	require.ErrorIs(t, err, botsig.ErrEmptySecret)
}

func TestSignAtDeterministic(t *testing.T) {
	s, err := botsig.NewSigner(testSecret)
	require.NoError(t, err)

	a := s.SignAt(1700000000, "abc123abc123", "POST", "/api/link/start", []byte(`{"external_id":"42"}`))
	b := s.SignAt(1700000000, "abc123abc123", "POST", "/api/link/start", []byte(`{"external_id":"42"}`))

	require.Equal(t, a, b)
	require.Equal(t, "1700000000", a.Timestamp)
	require.Equal(t, "abc123abc123", a.Nonce)
	require.Len(t, a.Signature, 64)
}

func TestSignFreshNonce(t *testing.T) {
	s, err := botsig.NewSigner(testSecret)
	require.NoError(t, err)

	a, err := s.Sign("GET", "/api/whoami", nil)
	require.NoError(t, err)
	b, err := s.Sign("GET", "/api/whoami", nil)
	require.NoError(t, err)

	require.Len(t, a.Nonce, 24)
	require.NotEqual(t, a.Nonce, b.Nonce)
}
