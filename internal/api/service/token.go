package service

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/tasker/internal/api/domain"
	"github.com/aussiebroadwan/tasker/internal/api/store"
	"github.com/aussiebroadwan/tasker/pkg/cryptox"
	"github.com/aussiebroadwan/tasker/pkg/idx"
	"github.com/aussiebroadwan/tasker/pkg/jwtx"
	"github.com/aussiebroadwan/tasker/pkg/slogx"
)

const DefaultRefreshTokenTTL = 24 * time.Hour

// TokenService is the Token Issuer: it mints access JWTs and opaque
// refresh tokens for password logins.
type TokenService struct {
	Store      store.Store
	Signer     *jwtx.Signer
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration

	Now func() time.Time
}

// Login checks username and password and returns a new token pair.
func (s *TokenService) Login(ctx context.Context, username, password string) (*domain.TokenPair, error) {
	now := s.now()
	l := slogx.FromContext(ctx)

	u, err := s.Store.Users().GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	// Users created by linking have no password and cannot log in.
	if u.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	if err := cryptox.VerifyPassword(password, u.PasswordHash); err != nil {
		l.Info("password verification failed", "user_id", u.ID)
		return nil, ErrInvalidCredentials
	}

	access, exp, err := s.signAccess(u, now)
	if err != nil {
		l.Error("failed to sign access token", "error", err)
		return nil, err
	}

	refresh, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return nil, err
	}
	if err := s.Store.RefreshTokens().CreateRefreshToken(ctx, domain.RefreshToken{
		ID:        idx.New().String(),
		UserID:    u.ID,
		TokenHash: cryptox.FingerprintToken(refresh),
		ExpiresAt: now.Add(s.refreshTTL()),
	}); err != nil {
		return nil, err
	}

	return &domain.TokenPair{Access: access, Refresh: refresh, AccessExpiresAt: exp}, nil
}

// Refresh mints a new access token for the holder of a valid refresh token.
// The refresh token itself is not rotated.
func (s *TokenService) Refresh(ctx context.Context, refreshOpaque string) (string, error) {
	now := s.now()

	rt, err := s.Store.RefreshTokens().GetRefreshTokenByHash(ctx, cryptox.FingerprintToken(refreshOpaque))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrInvalidRefresh
		}
		return "", err
	}
	if !rt.ValidAt(now) {
		return "", ErrInvalidRefresh
	}

	u, err := s.Store.Users().GetUserByID(ctx, rt.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrInvalidRefresh
		}
		return "", err
	}

	access, _, err := s.signAccess(u, now)
	return access, err
}

// RevokeRefreshToken revokes a single refresh token by its opaque value.
func (s *TokenService) RevokeRefreshToken(ctx context.Context, refreshOpaque string) error {
	return s.Store.RefreshTokens().RevokeRefreshToken(ctx, cryptox.FingerprintToken(refreshOpaque))
}

func (s *TokenService) signAccess(u domain.User, now time.Time) (string, time.Time, error) {
	ttl := s.AccessTTL
	if ttl <= 0 {
		ttl = jwtx.DefaultAccessTokenTTL
	}
	claims := jwtx.NewAccessClaims(u.ID, u.Username, s.Issuer, ttl, now)
	token, err := s.Signer.Sign(claims)
	return token, claims.ExpiresAt.Time, err
}

func (s *TokenService) refreshTTL() time.Duration {
	if s.RefreshTTL <= 0 {
		return DefaultRefreshTokenTTL
	}
	return s.RefreshTTL
}

func (s *TokenService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
