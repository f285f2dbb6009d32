package client

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRateLimiter(t *testing.T) {
	tests := []struct {
		name     string
		maxCalls int
		period   time.Duration
		wantErr  bool
	}{
		{
			name:     "valid config",
			maxCalls: 30,
			period:   time.Second,
			wantErr:  false,
		},
		{
			name:     "zero max calls",
			maxCalls: 0,
			period:   time.Second,
			wantErr:  true,
		},
		{
			name:     "negative max calls",
			maxCalls: -1,
			period:   time.Second,
			wantErr:  true,
		},
		{
			name:     "zero period",
			maxCalls: 30,
			period:   0,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limiter, err := NewRateLimiter(tt.maxCalls, tt.period)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.maxCalls, limiter.Available())
		})
	}
}

// fakeClock drives a limiter without real sleeping. Sleeps advance the
// clock and are recorded.
type fakeClock struct {
	current time.Time
	slept   []time.Duration
}

func (c *fakeClock) now() time.Time {
	return c.current
}

func (c *fakeClock) sleep(ctx context.Context, d time.Duration) error {
	c.slept = append(c.slept, d)
	c.current = c.current.Add(d)
	return nil
}

func newTestLimiter(t *testing.T, maxCalls int, period time.Duration) (*RateLimiter, *fakeClock) {
	t.Helper()

	limiter, err := NewRateLimiter(maxCalls, period)
	require.NoError(t, err)

	clock := &fakeClock{current: time.Unix(1700000000, 0)}
	limiter.now = clock.now
	limiter.sleep = clock.sleep
	return limiter, clock
}

func TestRateLimiterWithinLimit(t *testing.T) {
	limiter, clock := newTestLimiter(t, 3, time.Second)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, limiter.Wait(ctx))
	}

	assert.Empty(t, clock.slept, "calls within the limit must not sleep")
	assert.Equal(t, 0, limiter.Available())
}

func TestRateLimiterBlocksUntilWindowSlides(t *testing.T) {
	limiter, clock := newTestLimiter(t, 2, time.Second)
	ctx := context.Background()

	require.NoError(t, limiter.Wait(ctx))
	clock.current = clock.current.Add(300 * time.Millisecond)
	require.NoError(t, limiter.Wait(ctx))

	// Third call exceeds the window; it must wait until the first
	// timestamp is a full period old.
	require.NoError(t, limiter.Wait(ctx))

	require.Len(t, clock.slept, 1)
	assert.Equal(t, 700*time.Millisecond, clock.slept[0])
}

func TestRateLimiterWindowExpiry(t *testing.T) {
	limiter, clock := newTestLimiter(t, 2, time.Second)
	ctx := context.Background()

	require.NoError(t, limiter.Wait(ctx))
	require.NoError(t, limiter.Wait(ctx))
	assert.Equal(t, 0, limiter.Available())

	// After a full period both timestamps leave the window.
	clock.current = clock.current.Add(time.Second + time.Millisecond)
	assert.Equal(t, 2, limiter.Available())

	require.NoError(t, limiter.Wait(ctx))
	assert.Empty(t, clock.slept)
}

func TestRateLimiterReset(t *testing.T) {
	limiter, _ := newTestLimiter(t, 2, time.Second)
	ctx := context.Background()

	require.NoError(t, limiter.Wait(ctx))
	require.NoError(t, limiter.Wait(ctx))
	assert.Equal(t, 0, limiter.Available())

	limiter.Reset()
	assert.Equal(t, 2, limiter.Available())
}

func TestRateLimiterContextCancelled(t *testing.T) {
	limiter, err := NewRateLimiter(1, time.Hour)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, limiter.Wait(ctx))

	cancelled, cancel := context.WithCancel(ctx)
	cancel()

	err = limiter.Wait(cancelled)
	assert.ErrorIs(t, err, context.Canceled)
}
