package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/aussiebroadwan/tasker/internal/api/domain"
	"github.com/aussiebroadwan/tasker/internal/api/store"
	"github.com/aussiebroadwan/tasker/pkg/cryptox"
	"github.com/aussiebroadwan/tasker/pkg/idx"
	"github.com/aussiebroadwan/tasker/pkg/slogx"
)

// BootstrapService provisions the bot's service account at startup.
type BootstrapService struct {
	Store store.Store
}

// EnsureServiceUser makes sure username exists and logs in with password.
// An existing user whose hash no longer matches gets its password reset and
// its refresh tokens revoked.
func (s *BootstrapService) EnsureServiceUser(ctx context.Context, username, password string) (domain.User, error) {
	l := slogx.FromContext(ctx)
	if username == "" || password == "" {
		return domain.User{}, fmt.Errorf("%w: service username and password are required", ErrInvalidInput)
	}

	u, err := s.Store.Users().GetUserByUsername(ctx, username)
	switch {
	case err == nil:
		if u.PasswordHash != "" && cryptox.VerifyPassword(password, u.PasswordHash) == nil {
			return u, nil
		}
		return s.resetPassword(ctx, u, password)
	case !errors.Is(err, store.ErrNotFound):
		return domain.User{}, err
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.User{}, err
	}
	u = domain.User{ID: idx.New().String(), Username: username, PasswordHash: hash}
	if err := s.Store.Users().CreateUser(ctx, u); err != nil {
		return domain.User{}, fmt.Errorf("create service user: %w", err)
	}
	l.Info("service user created", "user_id", u.ID, "username", username)
	return s.Store.Users().GetUserByID(ctx, u.ID)
}

func (s *BootstrapService) resetPassword(ctx context.Context, u domain.User, password string) (domain.User, error) {
	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.User{}, err
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().UpdatePasswordHash(ctx, u.ID, hash); err != nil {
			return err
		}
		return tx.RefreshTokens().RevokeUserRefreshTokens(ctx, u.ID)
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("reset service user password: %w", err)
	}

	slogx.FromContext(ctx).Warn("service user password reset", "user_id", u.ID)
	u.PasswordHash = hash
	return u, nil
}
