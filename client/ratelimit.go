package client

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// RateLimiter enforces a sliding-window limit on outbound API calls:
// no more than maxCalls within any trailing window of the configured
// period. It is safe for concurrent use; the timestamp window is
// guarded by a mutex and the lock is released while sleeping.
type RateLimiter struct {
	maxCalls int
	period   time.Duration

	mu    sync.Mutex
	calls []time.Time

	// Overridable in tests.
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// NewRateLimiter creates a rate limiter allowing maxCalls per period.
func NewRateLimiter(maxCalls int, period time.Duration) (*RateLimiter, error) {
	if maxCalls <= 0 {
		return nil, fmt.Errorf("%w: max calls must be positive", ErrInvalidConfig)
	}
	if period <= 0 {
		return nil, fmt.Errorf("%w: period must be positive", ErrInvalidConfig)
	}

	return &RateLimiter{
		maxCalls: maxCalls,
		period:   period,
		now:      time.Now,
		sleep:    sleepContext,
	}, nil
}

// Wait blocks until issuing one more call would not exceed the limit,
// then records the call about to be made. It cannot fail except by
// context cancellation during the wait.
func (r *RateLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()
	for {
		now := r.now()
		r.evict(now)

		if len(r.calls) < r.maxCalls {
			r.calls = append(r.calls, now)
			r.mu.Unlock()
			return nil
		}

		// Sleep until the oldest recorded call exits the window.
		wait := r.calls[0].Add(r.period).Sub(now)
		r.mu.Unlock()

		if wait > 0 {
			if err := r.sleep(ctx, wait); err != nil {
				return err
			}
		}
		r.mu.Lock()
	}
}

// Reset clears all recorded calls.
func (r *RateLimiter) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = r.calls[:0]
}

// Available returns the number of calls that can be made without waiting.
func (r *RateLimiter) Available() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.evict(r.now())
	return r.maxCalls - len(r.calls)
}

// evict drops timestamps older than the trailing window. Caller holds the lock.
func (r *RateLimiter) evict(now time.Time) {
	cutoff := now.Add(-r.period)
	i := 0
	for i < len(r.calls) && !r.calls[i].After(cutoff) {
		i++
	}
	if i > 0 {
		r.calls = append(r.calls[:0], r.calls[i:]...)
	}
}

// sleepContext sleeps for d or until ctx is done, whichever comes first.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
