// Package kvstore is the shared key-value store behind the replay store, the
// bot token cache and the distributed refresh lease. Production deployments
// use Redis so state is shared across processes; the in-memory store is for
// single-process setups and tests.
package kvstore

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("kvstore: key not found")

type Store interface {
	// Get returns ErrNotFound for a missing or expired key.
	Get(ctx context.Context, key string) (string, error)

	// Set writes key unconditionally. A zero ttl means no expiry.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// SetNX writes key only when it is absent and reports whether it did.
	SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error)

	Del(ctx context.Context, keys ...string) error

	// DeleteIfValue removes key only while it still holds value.
	DeleteIfValue(ctx context.Context, key, value string) (bool, error)

	Ping(ctx context.Context) error
}
