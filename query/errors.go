package query

import (
	"errors"
	"fmt"
)

// ErrNoResults is returned by First when the query matches nothing.
var ErrNoResults = errors.New("query returned no results")

// ValidationError indicates an invalid query, such as a required filter
// that was never applied. It is raised when the payload is built and is
// never retried.
type ValidationError struct {
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return "invalid query: " + e.Message
}

// IndexOutOfRangeError indicates an index or slice bound outside the
// query's result range.
type IndexOutOfRangeError struct {
	Index int
	Count int
}

// Error implements the error interface
func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("index %d out of range for query with %d items", e.Index, e.Count)
}

// ConsistencyError indicates that a page returned fewer items than the
// count-based index math expected: the result set changed between the
// count call and the page fetch.
type ConsistencyError struct {
	Page     int
	Offset   int
	Returned int
}

// Error implements the error interface
func (e *ConsistencyError) Error() string {
	return fmt.Sprintf(
		"page %d returned %d items, expected offset %d: results changed between count and fetch",
		e.Page, e.Returned, e.Offset,
	)
}
