package service_test

import (
	"context"
	"testing"

	"github.com/aussiebroadwan/tasker/internal/api/service"
	"github.com/stretchr/testify/require"
)

func TestEnsureServiceUser(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newTestStore(t)
	boot := &service.BootstrapService{Store: s}

	u, err := boot.EnsureServiceUser(ctx, "bot_service", "first")
	require.NoError(t, err)

	again, err := boot.EnsureServiceUser(ctx, "bot_service", "first")
	require.NoError(t, err)
	require.Equal(t, u.ID, again.ID)
	require.Equal(t, u.PasswordHash, again.PasswordHash)

	_, err = boot.EnsureServiceUser(ctx, "", "x")
	require.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestEnsureServiceUserRotatesPassword(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newTestStore(t)
	boot := &service.BootstrapService{Store: s}

	_, err := boot.EnsureServiceUser(ctx, "bot_service", "old")
	require.NoError(t, err)

	tokens := &service.TokenService{Store: s, Signer: newTestSigner(t)}
	pair, err := tokens.Login(ctx, "bot_service", "old")
	require.NoError(t, err)

	_, err = boot.EnsureServiceUser(ctx, "bot_service", "new")
	require.NoError(t, err)

	_, err = tokens.Login(ctx, "bot_service", "old")
	require.ErrorIs(t, err, service.ErrInvalidCredentials)
	_, err = tokens.Login(ctx, "bot_service", "new")
	require.NoError(t, err)

	// Old refresh tokens die with the old password.
	_, err = tokens.Refresh(ctx, pair.Refresh)
	require.ErrorIs(t, err, service.ErrInvalidRefresh)
}
