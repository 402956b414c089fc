package kvstore_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aussiebroadwan/tasker/pkg/kvstore"
	"github.com/stretchr/testify/require"
)

// runStoreSuite exercises the Store contract shared by every backend.
func runStoreSuite(t *testing.T, s kvstore.Store) {
	ctx := context.Background()

	t.Run("get missing", func(t *testing.T) {
		_, err := s.Get(ctx, "suite:missing")
		require.ErrorIs(t, err, kvstore.ErrNotFound)
	})

	t.Run("set then get", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, "suite:a", "1", time.Minute))
		v, err := s.Get(ctx, "suite:a")
		require.NoError(t, err)
		require.Equal(t, "1", v)

		require.NoError(t, s.Set(ctx, "suite:a", "2", 0))
		v, err = s.Get(ctx, "suite:a")
		require.NoError(t, err)
		require.Equal(t, "2", v)
	})

	t.Run("setnx first writer wins", func(t *testing.T) {
		ok, err := s.SetNX(ctx, "suite:nx", "first", time.Minute)
		require.NoError(t, err)
		require.True(t, ok)

		ok, err = s.SetNX(ctx, "suite:nx", "second", time.Minute)
		require.NoError(t, err)
		require.False(t, ok)

		v, err := s.Get(ctx, "suite:nx")
		require.NoError(t, err)
		require.Equal(t, "first", v)
	})

	t.Run("setnx concurrent", func(t *testing.T) {
		const n = 32
		var wins atomic.Int32
		var wg sync.WaitGroup
		for range n {
			wg.Add(1)
			go func() {
				defer wg.Done()
				ok, err := s.SetNX(ctx, "suite:race", "x", time.Minute)
				if err == nil && ok {
					wins.Add(1)
				}
			}()
		}
		wg.Wait()
		require.EqualValues(t, 1, wins.Load())
	})

	t.Run("delete if value", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, "suite:lease", "owner-a", time.Minute))

		ok, err := s.DeleteIfValue(ctx, "suite:lease", "owner-b")
		require.NoError(t, err)
		require.False(t, ok)

		ok, err = s.DeleteIfValue(ctx, "suite:lease", "owner-a")
		require.NoError(t, err)
		require.True(t, ok)

		_, err = s.Get(ctx, "suite:lease")
		require.ErrorIs(t, err, kvstore.ErrNotFound)
	})

	t.Run("del", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, "suite:d1", "1", 0))
		require.NoError(t, s.Set(ctx, "suite:d2", "2", 0))
		require.NoError(t, s.Del(ctx, "suite:d1", "suite:d2"))

		_, err := s.Get(ctx, "suite:d1")
		require.ErrorIs(t, err, kvstore.ErrNotFound)
		_, err = s.Get(ctx, "suite:d2")
		require.ErrorIs(t, err, kvstore.ErrNotFound)
	})

	t.Run("ping", func(t *testing.T) {
		require.NoError(t, s.Ping(ctx))
	})
}
