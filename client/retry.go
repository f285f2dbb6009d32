package client

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// retryableStatusCodes are HTTP statuses that trigger the retry policy.
var retryableStatusCodes = map[int]bool{
	http.StatusTooManyRequests:     true, // 429
	http.StatusInternalServerError: true, // 500
	http.StatusBadGateway:          true, // 502
	http.StatusServiceUnavailable:  true, // 503
	http.StatusGatewayTimeout:      true, // 504
	520:                            true, // Cloudflare: unknown error
	521:                            true, // Cloudflare: web server is down
	522:                            true, // Cloudflare: connection timed out
	523:                            true, // Cloudflare: origin is unreachable
	524:                            true, // Cloudflare: a timeout occurred
}

// RetryHandler executes HTTP attempts with bounded retries, exponential
// backoff and jitter. It tracks consecutive 5xx failures across calls on
// the same handler and invokes a session-reset callback once the streak
// reaches the configured threshold, on the assumption that the remote
// session has become unusable and the transport should be rebuilt.
type RetryHandler struct {
	maxRetries            int
	baseDelay             time.Duration
	backoffFactor         float64
	sessionResetThreshold int
	resetSession          func()
	logger                zerolog.Logger

	mu             sync.Mutex
	consecutive5xx int

	// Overridable in tests.
	sleep     func(ctx context.Context, d time.Duration) error
	randFloat func() float64
}

// NewRetryHandler creates a retry handler. resetSession may be nil, in
// which case the session reset heuristic is disabled.
func NewRetryHandler(maxRetries int, baseDelay time.Duration, backoffFactor float64, resetThreshold int, resetSession func(), logger zerolog.Logger) *RetryHandler {
	if resetThreshold <= 0 {
		resetThreshold = 2
	}

	return &RetryHandler{
		maxRetries:            maxRetries,
		baseDelay:             baseDelay,
		backoffFactor:         backoffFactor,
		sessionResetThreshold: resetThreshold,
		resetSession:          resetSession,
		logger:                logger,
		sleep:                 sleepContext,
		randFloat:             rand.Float64,
	}
}

// Do executes op with retry logic, making at most maxRetries+1 attempts.
// A returned response with a retryable status code is converted into a
// RateLimitError or ServerError and retried; any other response is
// returned as-is (non-2xx handling is the caller's concern). When all
// retries are exhausted the last attempt's error is returned unchanged.
func (h *RetryHandler) Do(ctx context.Context, op func(ctx context.Context) (*http.Response, error)) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt <= h.maxRetries; attempt++ {
		resp, err := op(ctx)
		if err == nil {
			resp, err = h.classifyResponse(resp)
			if err == nil {
				return resp, nil
			}
		}
		lastErr = err

		is5xx := h.track(err)

		if attempt == h.maxRetries {
			h.logger.Warn().Err(err).Int("max_retries", h.maxRetries).
				Msg("retries exhausted")
			break
		}
		if !isRetryable(err) {
			h.logger.Debug().Err(err).Msg("error is not retryable")
			break
		}

		delay := h.nextDelay(attempt, err, is5xx)

		h.logger.Info().
			Int("attempt", attempt+1).
			Int("max_retries", h.maxRetries).
			Dur("delay", delay).
			Err(err).
			Msg("retrying request")

		if serr := h.sleep(ctx, delay); serr != nil {
			return nil, serr
		}
	}

	return nil, lastErr
}

// classifyResponse converts retryable statuses into errors. Anything
// else, including non-429 4xx, counts as a successful attempt here and
// resets the 5xx streak.
func (h *RetryHandler) classifyResponse(resp *http.Response) (*http.Response, error) {
	if !retryableStatusCodes[resp.StatusCode] {
		h.mu.Lock()
		h.consecutive5xx = 0
		h.mu.Unlock()
		return resp, nil
	}

	drainBody(resp)

	if resp.StatusCode == http.StatusTooManyRequests {
		retryAfter := parseRetryAfter(resp)
		h.logger.Warn().Int("retry_after", retryAfter).Msg("rate limit hit (HTTP 429)")
		return nil, &RateLimitError{RetryAfter: retryAfter}
	}

	h.logger.Warn().Int("status", resp.StatusCode).Msg("server error")
	return nil, &ServerError{StatusCode: resp.StatusCode}
}

// track updates the consecutive-5xx streak for the given failure and
// reports whether it was 5xx-classified. Any non-5xx outcome, including
// 429 and network errors, breaks the streak.
func (h *RetryHandler) track(err error) bool {
	var srv *ServerError
	is5xx := errors.As(err, &srv)

	h.mu.Lock()
	defer h.mu.Unlock()
	if is5xx {
		h.consecutive5xx++
	} else {
		h.consecutive5xx = 0
	}
	return is5xx
}

// nextDelay computes how long to sleep before the next attempt.
func (h *RetryHandler) nextDelay(attempt int, err error, is5xx bool) time.Duration {
	// A server-provided Retry-After wins over exponential growth.
	var rl *RateLimitError
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return time.Duration(rl.RetryAfter) * time.Second
	}

	delay := time.Duration(float64(h.baseDelay) * math.Pow(h.backoffFactor, float64(attempt)))
	// Up to 25% uniform jitter to avoid thundering herd.
	delay += time.Duration(float64(delay) * 0.25 * h.randFloat())

	if is5xx && h.maybeResetSession() {
		// A fresh session gets a fresh start: skip the accumulated backoff.
		delay = h.baseDelay
	}

	return delay
}

// maybeResetSession fires the session-reset callback once the 5xx streak
// reaches the threshold, then clears the streak.
func (h *RetryHandler) maybeResetSession() bool {
	if h.resetSession == nil {
		return false
	}

	h.mu.Lock()
	if h.consecutive5xx < h.sessionResetThreshold {
		h.mu.Unlock()
		return false
	}
	h.consecutive5xx = 0
	h.mu.Unlock()

	h.logger.Warn().Msg("consecutive server errors, resetting session")
	h.resetSession()
	return true
}

// isRetryable reports whether the failure should be retried. Rate-limit
// and retryable server errors always are; network/timeout errors are;
// everything else (including context cancellation) propagates immediately.
func isRetryable(err error) bool {
	var rl *RateLimitError
	var srv *ServerError
	if errors.As(err, &rl) || errors.As(err, &srv) {
		return true
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}

// parseRetryAfter extracts the Retry-After header in seconds. HTTP-date
// values are ignored and fall back to exponential backoff.
func parseRetryAfter(resp *http.Response) int {
	v := resp.Header.Get("Retry-After")
	if v == "" {
		return 0
	}
	seconds, err := strconv.Atoi(v)
	if err != nil || seconds < 0 {
		return 0
	}
	return seconds
}
