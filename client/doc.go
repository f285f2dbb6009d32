// Package client implements the resilient HTTP execution layer for the
// USAspending API: a sliding-window rate limiter, a retry handler with
// exponential backoff and a session-reset heuristic, and the Client that
// chains them in front of the HTTP transport.
//
// # Architecture
//
//   - Client: builds requests, decodes responses, owns the HTTP session
//   - RateLimiter: blocks callers so at most N calls happen per period
//   - RetryHandler: bounded retries with backoff, jitter and Retry-After
//     support; resets the HTTP session after consecutive server errors
//   - Errors: structured error types for classification by callers
//
// # Usage
//
//	logger := zerolog.New(os.Stderr)
//	c, err := client.New(client.DefaultBaseURL,
//		client.WithLogger(logger),
//		client.WithRateLimit(30, time.Second),
//		client.WithMaxRetries(3),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer c.Close()
//
//	data, err := c.Execute(ctx, http.MethodPost, "/search/spending_by_award/", payload)
//
// Every call blocks until the rate limiter admits it. Requests failing
// with 429, retryable 5xx statuses or transient network errors are
// retried up to the configured limit; the final failure is returned
// unwrapped so callers can inspect the root cause.
package client
