package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Version is the library version reported in the default user agent.
const Version = "0.1.0"

// DefaultBaseURL is the production USAspending API root.
const DefaultBaseURL = "https://api.usaspending.gov/api/v2"

// Client is the HTTP execution layer shared by every query builder.
// All requests pass through the rate limiter, then the retry handler,
// then the current HTTP session. The session is replaced by the retry
// handler's reset callback after a burst of server errors.
type Client struct {
	baseURL   string
	userAgent string
	timeout   time.Duration
	logger    zerolog.Logger

	limiter *RateLimiter
	retry   *RetryHandler

	mu      sync.Mutex
	session *http.Client
}

// New creates a USAspending API client.
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, ErrEmptyBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	limiter, err := NewRateLimiter(o.rateLimitCalls, o.rateLimitPeriod)
	if err != nil {
		return nil, err
	}

	c := &Client{
		baseURL:   baseURL,
		userAgent: o.userAgent,
		timeout:   o.timeout,
		logger:    o.logger,
		limiter:   limiter,
	}
	c.session = c.newSession()
	c.retry = NewRetryHandler(
		o.maxRetries,
		o.retryDelay,
		o.backoffFactor,
		o.sessionResetThreshold,
		c.resetSession,
		o.logger,
	)

	return c, nil
}

// RateLimiter exposes the client's rate limiter, shared by all builders.
func (c *Client) RateLimiter() *RateLimiter {
	return c.limiter
}

// Execute performs one logical API request: rate limit, then the request
// itself under retry, then JSON decoding. It satisfies query.Executor.
func (c *Client) Execute(ctx context.Context, method, endpoint string, payload map[string]any) (map[string]any, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	url := c.baseURL + "/" + strings.TrimLeft(endpoint, "/")

	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode payload: %w", err)
		}
	}

	c.logger.Debug().
		Str("method", method).
		Str("url", url).
		Msg("making USAspending API request")

	resp, err := c.retry.Do(ctx, func(ctx context.Context) (*http.Response, error) {
		req, err := c.newRequest(ctx, method, url, body)
		if err != nil {
			return nil, err
		}
		return c.currentSession().Do(req)
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    http.StatusText(resp.StatusCode),
			Body:       string(raw),
		}
	}

	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, &APIError{Message: fmt.Sprintf("invalid JSON response: %v", err)}
	}

	// Some endpoints report failures inside a 200 response.
	if msg, ok := apiReportedError(data); ok {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: msg, Body: string(raw)}
	}

	return data, nil
}

// Close releases the client's idle connections.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session.CloseIdleConnections()
	c.logger.Debug().Msg("usaspending client closed")
}

// newRequest builds one attempt's request. A fresh body reader is needed
// per attempt because the retry handler may issue the request again.
func (c *Client) newRequest(ctx context.Context, method, url string, body []byte) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func (c *Client) newSession() *http.Client {
	return &http.Client{
		Timeout: c.timeout,
	}
}

// currentSession returns the active HTTP session under the lock; the
// session pointer may be swapped concurrently by resetSession.
func (c *Client) currentSession() *http.Client {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// resetSession discards the current HTTP session and its connections and
// installs a fresh one. Invoked by the retry handler after a run of
// consecutive server errors.
func (c *Client) resetSession() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session.CloseIdleConnections()
	c.session = c.newSession()
	c.logger.Warn().Msg("HTTP session reset")
}

// apiReportedError detects error bodies the API returns with a 200.
func apiReportedError(data map[string]any) (string, bool) {
	for _, key := range []string{"error", "detail", "message"} {
		if v, ok := data[key].(string); ok && v != "" {
			return v, true
		}
	}
	return "", false
}

// drainBody discards and closes a response body so the underlying
// connection can be reused before a retry.
func drainBody(resp *http.Response) {
	if resp == nil || resp.Body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	resp.Body.Close()
}
