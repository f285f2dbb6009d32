package client

import (
	"errors"
	"fmt"
)

// Common errors returned by the USAspending client.
var (
	// ErrInvalidConfig indicates invalid client configuration.
	ErrInvalidConfig = errors.New("invalid usaspending client configuration")
	// ErrEmptyBaseURL indicates a missing API base URL.
	ErrEmptyBaseURL = errors.New("base URL is required")
)

// APIError represents an error response from the USAspending API.
// It covers both HTTP-level failures (4xx/5xx that were not retried away)
// and API-reported errors embedded in an otherwise successful response.
type APIError struct {
	StatusCode int
	Message    string
	Body       string
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("usaspending API error: status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("usaspending API error: %s", e.Message)
}

// IsNotFound checks if the error indicates a not found response
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == 404
}

// RateLimitError is raised internally by the retry handler when the API
// answers 429. RetryAfter carries the server-provided delay in seconds,
// or 0 when the header was absent or unparsable.
type RateLimitError struct {
	RetryAfter int
}

// Error implements the error interface
func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limit exceeded, retry after %ds", e.RetryAfter)
	}
	return "rate limit exceeded"
}

// ServerError is raised internally by the retry handler for retryable
// 5xx responses. It drives the consecutive-error session reset heuristic.
type ServerError struct {
	StatusCode int
}

// Error implements the error interface
func (e *ServerError) Error() string {
	return fmt.Sprintf("server error: HTTP %d", e.StatusCode)
}
