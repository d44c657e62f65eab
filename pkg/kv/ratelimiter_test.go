package kv

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestStore(t *testing.T, rate float64, burst int) (*RateLimiterStore, *fakeClock) {
	t.Helper()
	s, err := NewRateLimiterStore(t.TempDir(), rate, burst, time.Minute)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	clock := &fakeClock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	s.now = clock.now
	return s, clock
}

func allowN(t *testing.T, s *RateLimiterStore, id string, n int) int {
	t.Helper()
	allowed := 0
	for i := 0; i < n; i++ {
		ok, err := s.Allow(id)
		require.NoError(t, err)
		if ok {
			allowed++
		}
	}
	return allowed
}

func TestAllowBurstThenBlock(t *testing.T) {
	s, clock := newTestStore(t, 1, 3)

	assert.Equal(t, 3, allowN(t, s, "10.0.0.1", 5))

	// Other clients keep their own bucket
	assert.Equal(t, 3, allowN(t, s, "10.0.0.2", 3))

	// Still inside the penalty window
	clock.advance(500 * time.Millisecond)
	assert.Equal(t, 0, allowN(t, s, "10.0.0.1", 1))

	// Penalty over, two seconds of refill since the last counted request
	clock.advance(1500 * time.Millisecond)
	assert.Equal(t, 2, allowN(t, s, "10.0.0.1", 3))
}

func TestAllowRefillIsCappedAtBurst(t *testing.T) {
	s, clock := newTestStore(t, 10, 2)

	assert.Equal(t, 2, allowN(t, s, "client", 2))
	clock.advance(30 * time.Second)
	assert.Equal(t, 2, allowN(t, s, "client", 4))
}

func TestAllowExpiredStateStartsFresh(t *testing.T) {
	s, clock := newTestStore(t, 0.001, 2)

	assert.Equal(t, 2, allowN(t, s, "client", 3))
	clock.advance(2 * time.Minute)
	assert.Equal(t, 2, allowN(t, s, "client", 2))
}

func TestReset(t *testing.T) {
	s, _ := newTestStore(t, 0.001, 1)

	assert.Equal(t, 1, allowN(t, s, "client", 2))
	require.NoError(t, s.Reset("client"))
	assert.Equal(t, 1, allowN(t, s, "client", 1))
}

func TestNewRateLimiterStoreRejectsBadLimits(t *testing.T) {
	_, err := NewRateLimiterStore(t.TempDir(), 0, 5, time.Minute)
	assert.Error(t, err)

	_, err = NewRateLimiterStore(t.TempDir(), 1, 0, time.Minute)
	assert.Error(t, err)
}
