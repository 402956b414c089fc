package apiclient_test

import (
	"context"
	"testing"
	"time"

	"github.com/aussiebroadwan/tasker/pkg/apiclient"
	"github.com/aussiebroadwan/tasker/pkg/kvstore"
	"github.com/stretchr/testify/require"
)

func TestKVLeaseExclusive(t *testing.T) {
	t.Parallel()
	store := kvstore.NewMemory()
	lease := apiclient.NewKVLease(store, "jwt:bot:lock", time.Minute).WithRetry(5 * time.Millisecond)

	release, err := lease.Acquire(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	_, err = lease.Acquire(ctx)
	require.ErrorIs(t, err, apiclient.ErrLeaseNotAcquired)

	release()

	release2, err := lease.Acquire(context.Background())
	require.NoError(t, err)
	release2()
}

func TestKVLeaseWaitsForRelease(t *testing.T) {
	t.Parallel()
	store := kvstore.NewMemory()
	lease := apiclient.NewKVLease(store, "lock", time.Minute).WithRetry(5 * time.Millisecond)

	release, err := lease.Acquire(context.Background())
	require.NoError(t, err)

	acquired := make(chan struct{})
	go func() {
		r, err := lease.Acquire(context.Background())
		if err == nil {
			close(acquired)
			r()
		}
	}()

	time.Sleep(20 * time.Millisecond)
	select {
	case <-acquired:
		t.Fatal("lease acquired while held")
	default:
	}

	release()
	require.Eventually(t, func() bool {
		select {
		case <-acquired:
			return true
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond)
}

func TestKVLeaseReleaseKeepsNewOwner(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := kvstore.NewMemory()
	lease := apiclient.NewKVLease(store, "lock", time.Minute)

	staleRelease, err := lease.Acquire(ctx)
	require.NoError(t, err)

	// Simulate the lease expiring and another process taking it.
	require.NoError(t, store.Del(ctx, "lock"))
	ok, err := store.SetNX(ctx, "lock", "other-owner", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	staleRelease()

	v, err := store.Get(ctx, "lock")
	require.NoError(t, err)
	require.Equal(t, "other-owner", v)
}
