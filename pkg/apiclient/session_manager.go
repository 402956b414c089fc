package apiclient

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/tasker/pkg/jwtx"
)

const (
	DefaultLeeway    = 30 * time.Second
	DefaultAccessTTL = 300 * time.Second
)

// TokenIssuer mints and refreshes bearer tokens. *Client implements it.
type TokenIssuer interface {
	Login(ctx context.Context, username, password string) (*TokenPair, error)
	Refresh(ctx context.Context, refresh string) (string, error)
}

// TokenSource hands out access tokens that are valid for near-future use.
type TokenSource interface {
	EnsureAccessToken(ctx context.Context) (string, error)
}

type SessionConfig struct {
	Issuer   TokenIssuer
	Cache    *TokenCache
	Username string
	Password string

	// Leeway is how close to expiry a cached token may get before it is renewed.
	Leeway time.Duration

	// AccessTTL is the cache TTL of the access entry, independent of the
	// token's own exp claim.
	AccessTTL time.Duration

	// Lease, when set, serializes renewal across processes sharing Cache.
	Lease Lease

	Logger *slog.Logger
	Now    func() time.Time
}

// SessionManager keeps a valid access token in the shared cache. Within a
// process at most one login or refresh call is in flight at a time.
type SessionManager struct {
	cfg SessionConfig
	sem chan struct{}
}

func NewSessionManager(cfg SessionConfig) (*SessionManager, error) {
	if cfg.Issuer == nil {
		return nil, errors.New("apiclient: session issuer is required")
	}
	if cfg.Cache == nil {
		return nil, errors.New("apiclient: session cache is required")
	}
	if cfg.Username == "" {
		return nil, errors.New("apiclient: session username is required")
	}
	if cfg.Leeway <= 0 {
		cfg.Leeway = DefaultLeeway
	}
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = DefaultAccessTTL
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &SessionManager{cfg: cfg, sem: make(chan struct{}, 1)}, nil
}

// EnsureAccessToken returns a cached token when it is fresh, otherwise it
// renews one. Failure to obtain a token wraps ErrSessionUnavailable.
func (m *SessionManager) EnsureAccessToken(ctx context.Context) (string, error) {
	if token, ok := m.fresh(ctx); ok {
		return token, nil
	}

	select {
	case m.sem <- struct{}{}:
	case <-ctx.Done():
		return "", fmt.Errorf("%w: %w", ErrSessionUnavailable, ctx.Err())
	}
	defer func() { <-m.sem }()

	// Another caller may have renewed while we waited.
	if token, ok := m.fresh(ctx); ok {
		return token, nil
	}

	if m.cfg.Lease != nil {
		release, err := m.cfg.Lease.Acquire(ctx)
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrSessionUnavailable, err)
		}
		defer release()

		// Another process may have renewed while we held no lease.
		if token, ok := m.fresh(ctx); ok {
			return token, nil
		}
	}

	return m.renew(ctx)
}

// Invalidate drops the cached access token so the next call renews it.
func (m *SessionManager) Invalidate(ctx context.Context) error {
	return m.cfg.Cache.DropAccess(ctx)
}

func (m *SessionManager) fresh(ctx context.Context) (string, bool) {
	token, err := m.cfg.Cache.Access(ctx)
	if err != nil {
		m.cfg.Logger.WarnContext(ctx, "token cache read failed", "error", err)
		return "", false
	}
	if token == "" {
		return "", false
	}

	exp, err := jwtx.UnverifiedExpiry(token)
	if err != nil {
		return "", false
	}
	return token, exp.Sub(m.cfg.Now()) > m.cfg.Leeway
}

func (m *SessionManager) renew(ctx context.Context) (string, error) {
	log := m.cfg.Logger

	refresh, err := m.cfg.Cache.Refresh(ctx)
	if err != nil {
		log.WarnContext(ctx, "token cache read failed", "error", err)
	}
	if refresh != "" {
		access, err := m.cfg.Issuer.Refresh(ctx, refresh)
		if err == nil {
			if err := m.cfg.Cache.SetAccess(ctx, access, m.cfg.AccessTTL); err != nil {
				log.WarnContext(ctx, "token cache write failed", "error", err)
			}
			log.DebugContext(ctx, "access token refreshed")
			return access, nil
		}
		log.WarnContext(ctx, "token refresh failed, falling back to login", "error", err)
	}

	pair, err := m.cfg.Issuer.Login(ctx, m.cfg.Username, m.cfg.Password)
	if err != nil {
		log.ErrorContext(ctx, "service login failed", "error", err)
		return "", fmt.Errorf("%w: login: %w", ErrSessionUnavailable, err)
	}
	if err := m.cfg.Cache.SetPair(ctx, pair, m.cfg.AccessTTL); err != nil {
		log.WarnContext(ctx, "token cache write failed", "error", err)
	}
	log.InfoContext(ctx, "service login succeeded")
	return pair.Access, nil
}
