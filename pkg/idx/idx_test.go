package idx_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/tasker/pkg/idx"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	id := idx.New()
	require.Len(t, id.String(), 26)
	require.True(t, id.Valid())
	require.WithinDuration(t, time.Now(), id.Time(), time.Second)
}

func TestValid(t *testing.T) {
	require.True(t, idx.ID("01HQ7T3Z1MZ0JQ3M6MZQ1FQ3ZV").Valid())
	for _, s := range []string{"", "not-a-ulid", "01HQ7T3Z1MZ0JQ3M6MZQ1FQ3Z", "01HQ7T3Z1MZ0JQ3M6MZQ1FQ3ZV\n"} {
		require.False(t, idx.ID(s).Valid(), "%q", s)
	}
}

func TestSameMillisecondSorts(t *testing.T) {
	at := time.Unix(1700000000, 0)

	prev := idx.NewAt(at)
	for range 100 {
		next := idx.NewAt(at)
		require.Less(t, prev.String(), next.String())
		prev = next
	}
	require.Equal(t, at.UTC(), prev.Time())
}

func TestTimeOfMalformed(t *testing.T) {
	require.True(t, idx.ID("garbage").Time().IsZero())
}
