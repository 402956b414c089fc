package kvstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemorySweepsAtMostOncePerInterval(t *testing.T) {
	ctx := context.Background()
	now := time.Unix(1700000000, 0)
	m := NewMemory().WithClock(func() time.Time { return now })

	ok, err := m.SetNX(ctx, "n1", "1", time.Second)
	require.NoError(t, err)
	require.True(t, ok)

	// Expired but inside the sweep interval: the entry stays in the map.
	now = now.Add(2 * time.Second)
	ok, err = m.SetNX(ctx, "n2", "1", time.Second)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, m.entries, 2)

	// An expired key is still free to claim before it is swept.
	ok, err = m.SetNX(ctx, "n1", "1", time.Hour)
	require.NoError(t, err)
	require.True(t, ok)

	now = now.Add(sweepInterval)
	require.NoError(t, m.Set(ctx, "n3", "1", 0))
	require.Len(t, m.entries, 2)
	require.Contains(t, m.entries, "n1")
	require.Contains(t, m.entries, "n3")
}
