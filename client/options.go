package client

import (
	"time"

	"github.com/rs/zerolog"
)

// Option configures a Client.
type Option func(*clientOptions)

// clientOptions holds configuration options for the Client.
type clientOptions struct {
	timeout               time.Duration
	userAgent             string
	maxRetries            int
	retryDelay            time.Duration
	backoffFactor         float64
	sessionResetThreshold int
	rateLimitCalls        int
	rateLimitPeriod       time.Duration
	logger                zerolog.Logger
}

// defaultOptions mirror the hosted API's documented limits: 30 requests
// per second, three retries with 1s base delay doubling per attempt.
func defaultOptions() clientOptions {
	return clientOptions{
		timeout:               30 * time.Second,
		userAgent:             "usaspending-go/" + Version,
		maxRetries:            3,
		retryDelay:            time.Second,
		backoffFactor:         2.0,
		sessionResetThreshold: 2,
		rateLimitCalls:        30,
		rateLimitPeriod:       time.Second,
		logger:                zerolog.Nop(),
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(o *clientOptions) {
		if timeout > 0 {
			o.timeout = timeout
		}
	}
}

// WithUserAgent sets a custom user agent string.
func WithUserAgent(userAgent string) Option {
	return func(o *clientOptions) {
		if userAgent != "" {
			o.userAgent = userAgent
		}
	}
}

// WithMaxRetries sets the maximum number of retry attempts.
func WithMaxRetries(retries int) Option {
	return func(o *clientOptions) {
		if retries >= 0 {
			o.maxRetries = retries
		}
	}
}

// WithRetryDelay sets the base delay between retry attempts.
func WithRetryDelay(delay time.Duration) Option {
	return func(o *clientOptions) {
		if delay > 0 {
			o.retryDelay = delay
		}
	}
}

// WithBackoffFactor sets the exponential backoff multiplier.
func WithBackoffFactor(factor float64) Option {
	return func(o *clientOptions) {
		if factor > 1 {
			o.backoffFactor = factor
		}
	}
}

// WithSessionResetThreshold sets how many consecutive server errors
// trigger a session reset.
func WithSessionResetThreshold(n int) Option {
	return func(o *clientOptions) {
		if n > 0 {
			o.sessionResetThreshold = n
		}
	}
}

// WithRateLimit sets the outbound call budget: at most calls per period.
func WithRateLimit(calls int, period time.Duration) Option {
	return func(o *clientOptions) {
		if calls > 0 && period > 0 {
			o.rateLimitCalls = calls
			o.rateLimitPeriod = period
		}
	}
}

// WithLogger sets the structured logger used by the client.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *clientOptions) {
		o.logger = logger
	}
}
