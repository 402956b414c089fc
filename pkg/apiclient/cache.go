package apiclient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/tasker/pkg/kvstore"
)

const DefaultCachePrefix = "jwt:bot:"

// TokenCache keeps the current token pair in a shared kvstore so every bot
// process sees the same generation.
type TokenCache struct {
	store  kvstore.Store
	prefix string
}

func NewTokenCache(store kvstore.Store, prefix string) *TokenCache {
	if prefix == "" {
		prefix = DefaultCachePrefix
	}
	return &TokenCache{store: store, prefix: prefix}
}

func (c *TokenCache) accessKey() string  { return c.prefix + "access" }
func (c *TokenCache) refreshKey() string { return c.prefix + "refresh" }

// LockKey is where a KVLease for this cache lives.
func (c *TokenCache) LockKey() string { return c.prefix + "lock" }

// Access returns the cached access token, or "" when none is cached.
func (c *TokenCache) Access(ctx context.Context) (string, error) {
	return c.get(ctx, c.accessKey())
}

// Refresh returns the cached refresh token, or "" when none is cached.
func (c *TokenCache) Refresh(ctx context.Context) (string, error) {
	return c.get(ctx, c.refreshKey())
}

func (c *TokenCache) get(ctx context.Context, key string) (string, error) {
	v, err := c.store.Get(ctx, key)
	if errors.Is(err, kvstore.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("token cache get %s: %w", key, err)
	}
	return v, nil
}

func (c *TokenCache) SetAccess(ctx context.Context, access string, ttl time.Duration) error {
	if err := c.store.Set(ctx, c.accessKey(), access, ttl); err != nil {
		return fmt.Errorf("token cache set access: %w", err)
	}
	return nil
}

// SetPair writes both tokens. The refresh entry has no cache TTL; its
// lifetime is enforced by the issuer.
func (c *TokenCache) SetPair(ctx context.Context, pair *TokenPair, accessTTL time.Duration) error {
	if err := c.store.Set(ctx, c.refreshKey(), pair.Refresh, 0); err != nil {
		return fmt.Errorf("token cache set refresh: %w", err)
	}
	return c.SetAccess(ctx, pair.Access, accessTTL)
}

// DropAccess forgets the access token but keeps the refresh token.
func (c *TokenCache) DropAccess(ctx context.Context) error {
	return c.store.Del(ctx, c.accessKey())
}

func (c *TokenCache) Clear(ctx context.Context) error {
	return c.store.Del(ctx, c.accessKey(), c.refreshKey())
}
