package apiclient

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/tasker/pkg/idx"
	"github.com/aussiebroadwan/tasker/pkg/kvstore"
)

const (
	DefaultLeaseTTL   = 15 * time.Second
	DefaultLeaseRetry = 100 * time.Millisecond
	releaseTimeout    = 2 * time.Second
)

var ErrLeaseNotAcquired = errors.New("apiclient: lease not acquired")

// Lease serializes token renewal across processes.
type Lease interface {
	// Acquire blocks until the lease is held or ctx is done. The returned
	// release func is safe to call once.
	Acquire(ctx context.Context) (release func(), error)
}

// KVLease is a Lease stored as a single kvstore key holding the owner's
// token. The TTL bounds how long a crashed holder can block others.
type KVLease struct {
	store kvstore.Store
	key   string
	ttl   time.Duration
	retry time.Duration
}

func NewKVLease(store kvstore.Store, key string, ttl time.Duration) *KVLease {
	if ttl <= 0 {
		ttl = DefaultLeaseTTL
	}
	return &KVLease{store: store, key: key, ttl: ttl, retry: DefaultLeaseRetry}
}

// WithRetry sets the poll interval used while another owner holds the lease.
func (l *KVLease) WithRetry(d time.Duration) *KVLease {
	if d > 0 {
		l.retry = d
	}
	return l
}

func (l *KVLease) Acquire(ctx context.Context) (func(), error) {
	owner := idx.New().String()

	ticker := time.NewTicker(l.retry)
	defer ticker.Stop()

	for {
		ok, err := l.store.SetNX(ctx, l.key, owner, l.ttl)
		if err != nil {
			return nil, fmt.Errorf("acquire lease %s: %w", l.key, err)
		}
		if ok {
			return l.releaser(ctx, owner), nil
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %w", ErrLeaseNotAcquired, ctx.Err())
		case <-ticker.C:
		}
	}
}

func (l *KVLease) releaser(ctx context.Context, owner string) func() {
	return func() {
		// The caller's context may already be done; release must still run.
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
		defer cancel()

		if _, err := l.store.DeleteIfValue(rctx, l.key, owner); err != nil {
			slog.Warn("lease release failed", "key", l.key, "error", err)
		}
	}
}
