package httpx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLimiterSetEvictsIdleBuckets(t *testing.T) {
	set := newLimiterSet(RateLimitConfig{RequestsPerWindow: 1, Window: time.Minute, Burst: 1})
	start := time.Now()

	set.get("a", start)
	set.get("b", start)
	require.Equal(t, 2, set.size())

	// b stays active, a goes idle for more than two windows.
	set.get("b", start.Add(90*time.Second))
	set.get("b", start.Add(150*time.Second))
	require.Equal(t, 1, set.size())

	require.Same(t, set.get("b", start.Add(151*time.Second)), set.get("b", start.Add(152*time.Second)))
}
