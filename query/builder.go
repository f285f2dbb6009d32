package query

import (
	"context"
	"iter"
	"net/http"
	"slices"

	"github.com/rs/zerolog"
)

// MaxPageSize is the hard cap the USAspending API places on page size.
const MaxPageSize = 100

// Executor submits one API request and returns the decoded JSON body.
// It is implemented by client.Client; the engine never opens sockets
// itself.
type Executor interface {
	Execute(ctx context.Context, method, endpoint string, payload map[string]any) (map[string]any, error)
}

// Request carries the pagination and ordering settings for one page
// fetch into Spec.BuildPayload.
type Request struct {
	Page      int
	PageSize  int
	SortField string
	SortOrder string
}

// Spec supplies the endpoint-specific behavior a Builder needs: where to
// send the query, how to shape the payload, and how to turn one raw
// result row into a domain value.
type Spec[T any] interface {
	// Endpoint returns the API path for this query.
	Endpoint() string
	// BuildPayload constructs the request payload from the aggregated
	// filters. It may return a *ValidationError, e.g. when a required
	// filter is missing.
	BuildPayload(filters map[string]any, req Request) (map[string]any, error)
	// Transform converts a single raw result row.
	Transform(raw map[string]any) (T, error)
}

// Counter is implemented by specs whose endpoint has a dedicated count
// call. Builders without one fall back to iterating and tallying.
type Counter interface {
	Count(ctx context.Context, exec Executor, filters map[string]any) (int, error)
}

// Builder is an immutable, generic paginated query. Configuration
// methods return a modified copy and never touch the receiver, so a
// builder can be stored, shared and forked freely. Access methods
// (Iterate, All, First, Count, At, Slice) fetch pages strictly
// sequentially through the Executor.
type Builder[T any] struct {
	exec   Executor
	spec   Spec[T]
	logger zerolog.Logger

	filters    []Filter
	pageSize   int
	totalLimit int // negative means unlimited
	maxPages   int // zero means unlimited
	sortField  string
	sortOrder  string
}

// New creates a builder for the given executor and spec.
func New[T any](exec Executor, spec Spec[T], logger zerolog.Logger) Builder[T] {
	return Builder[T]{
		exec:       exec,
		spec:       spec,
		logger:     logger,
		pageSize:   MaxPageSize,
		totalLimit: -1,
		sortOrder:  "desc",
	}
}

// clone detaches the filter slice so appends on the copy never alias the
// receiver's backing array.
func (b Builder[T]) clone() Builder[T] {
	b.filters = slices.Clone(b.filters)
	return b
}

// AddFilter returns a copy with one more filter applied. Insertion order
// is significant: it determines merge order for list-valued keys.
func (b Builder[T]) AddFilter(f Filter) Builder[T] {
	b = b.clone()
	b.filters = append(b.filters, f)
	return b
}

// Limit returns a copy capped at n total items across all pages.
func (b Builder[T]) Limit(n int) Builder[T] {
	b = b.clone()
	b.totalLimit = n
	return b
}

// PageSize returns a copy with the given page size, capped at the API
// maximum of 100.
func (b Builder[T]) PageSize(n int) Builder[T] {
	b = b.clone()
	b.pageSize = min(n, MaxPageSize)
	return b
}

// MaxPages returns a copy that fetches at most n pages.
func (b Builder[T]) MaxPages(n int) Builder[T] {
	b = b.clone()
	b.maxPages = n
	return b
}

// OrderBy returns a copy sorted by the given field and direction.
func (b Builder[T]) OrderBy(field, direction string) Builder[T] {
	b = b.clone()
	b.sortField = field
	b.sortOrder = direction
	return b
}

// WithSpec returns a copy using the given spec. Concrete builders use
// this to keep derived spec state in step with their filters.
func (b Builder[T]) WithSpec(spec Spec[T]) Builder[T] {
	b = b.clone()
	b.spec = spec
	return b
}

// Iterate lazily yields results, fetching pages on demand. Each call
// starts a fresh iteration from page 1. Iteration stops at the item
// limit, the page limit, an empty page, or the server reporting no next
// page, whichever comes first.
func (b Builder[T]) Iterate(ctx context.Context) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var zero T
		page := 1
		pagesFetched := 0
		yielded := 0

		b.logger.Debug().
			Str("endpoint", b.spec.Endpoint()).
			Int("page_size", b.effectivePageSize()).
			Int("total_limit", b.totalLimit).
			Int("max_pages", b.maxPages).
			Msg("starting query iteration")

		for {
			if b.totalLimit >= 0 && yielded >= b.totalLimit {
				return
			}
			if b.maxPages > 0 && pagesFetched >= b.maxPages {
				return
			}

			resp, err := b.fetchPage(ctx, page, b.effectivePageSize())
			if err != nil {
				yield(zero, err)
				return
			}

			// An empty page always terminates, even if the server's
			// pagination metadata claims more pages exist.
			if len(resp.results) == 0 {
				return
			}

			for _, raw := range resp.results {
				if b.totalLimit >= 0 && yielded >= b.totalLimit {
					return
				}
				item, err := b.spec.Transform(raw)
				if err != nil {
					yield(zero, err)
					return
				}
				if !yield(item, nil) {
					return
				}
				yielded++
			}

			if !resp.hasNext {
				return
			}
			page++
			pagesFetched++
		}
	}
}

// All materializes the full iteration into a slice.
func (b Builder[T]) All(ctx context.Context) ([]T, error) {
	var out []T
	for item, err := range b.Iterate(ctx) {
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

// First returns the first result, or ErrNoResults when the query
// matches nothing.
func (b Builder[T]) First(ctx context.Context) (T, error) {
	for item, err := range b.Limit(1).Iterate(ctx) {
		return item, err
	}
	var zero T
	return zero, ErrNoResults
}

// Count returns the total number of matching items. Specs with a
// dedicated count endpoint are used directly; otherwise every page is
// fetched and tallied. The count reflects the whole result set and is
// not capped by Limit or MaxPages.
func (b Builder[T]) Count(ctx context.Context) (int, error) {
	if counter, ok := b.spec.(Counter); ok {
		return counter.Count(ctx, b.exec, MergeFilters(b.filters))
	}

	total := 0
	page := 1
	for {
		resp, err := b.fetchPage(ctx, page, b.pageSize)
		if err != nil {
			return 0, err
		}
		total += len(resp.results)
		if len(resp.results) == 0 || !resp.hasNext {
			return total, nil
		}
		page++
	}
}

// At returns the item at index i without materializing the full result
// set: it resolves i against Count, fetches the single page containing
// the index, and extracts the item. Negative indices count from the end.
func (b Builder[T]) At(ctx context.Context, i int) (T, error) {
	var zero T

	total, err := b.Count(ctx)
	if err != nil {
		return zero, err
	}
	return b.atIndex(ctx, i, total)
}

func (b Builder[T]) atIndex(ctx context.Context, i, total int) (T, error) {
	var zero T

	idx := i
	if idx < 0 {
		idx += total
	}
	if idx < 0 || idx >= total {
		return zero, &IndexOutOfRangeError{Index: i, Count: total}
	}

	page := idx/b.pageSize + 1
	offset := idx % b.pageSize

	b.logger.Debug().Int("page", page).Int("index", idx).Msg("fetching page for indexed access")

	resp, err := b.fetchPage(ctx, page, b.pageSize)
	if err != nil {
		return zero, err
	}
	if offset >= len(resp.results) {
		return zero, &ConsistencyError{Page: page, Offset: offset, Returned: len(resp.results)}
	}

	return b.spec.Transform(resp.results[offset])
}

// Slice returns the items in [start, stop) taking every step-th one.
// Negative bounds count from the end and out-of-range bounds are
// clamped, following the usual slicing conventions. A contiguous slice
// (step 1) fetches only the covering page range; any other step falls
// back to one indexed fetch, and therefore one page fetch, per selected
// item.
func (b Builder[T]) Slice(ctx context.Context, start, stop, step int) ([]T, error) {
	if step < 1 {
		return nil, &ValidationError{Message: "slice step must be >= 1"}
	}

	total, err := b.Count(ctx)
	if err != nil {
		return nil, err
	}

	start = clampIndex(start, total)
	stop = clampIndex(stop, total)
	if start >= stop {
		return []T{}, nil
	}

	if step != 1 {
		var out []T
		for i := start; i < stop; i += step {
			item, err := b.atIndex(ctx, i, total)
			if err != nil {
				return nil, err
			}
			out = append(out, item)
		}
		return out, nil
	}

	startPage := start/b.pageSize + 1
	endPage := (stop-1)/b.pageSize + 1

	b.logger.Debug().
		Int("start_page", startPage).
		Int("end_page", endPage).
		Msg("fetching page range for slice")

	out := make([]T, 0, stop-start)
	for page := startPage; page <= endPage; page++ {
		resp, err := b.fetchPage(ctx, page, b.pageSize)
		if err != nil {
			return nil, err
		}

		pageStart := (page - 1) * b.pageSize
		takeStart := max(0, start-pageStart)
		takeEnd := min(len(resp.results), stop-pageStart)

		for i := takeStart; i < takeEnd; i++ {
			item, err := b.spec.Transform(resp.results[i])
			if err != nil {
				return nil, err
			}
			out = append(out, item)
		}

		if len(out) >= stop-start {
			break
		}
	}

	return out, nil
}

// Filters returns a copy of the applied filters.
func (b Builder[T]) Filters() []Filter {
	return slices.Clone(b.filters)
}

// effectivePageSize is the page size actually requested during
// iteration: never more than the total item limit when one is set.
func (b Builder[T]) effectivePageSize() int {
	if b.totalLimit >= 0 {
		return min(b.pageSize, b.totalLimit)
	}
	return b.pageSize
}

// pageResponse is the engine's view of one raw result page.
type pageResponse struct {
	results []map[string]any
	hasNext bool
}

// fetchPage runs the shared execution path for one page: aggregate
// filters, build the payload, submit it, and extract the result list and
// pagination metadata with fail-safe defaults (a missing result list
// reads as empty, missing metadata as "no more pages").
func (b Builder[T]) fetchPage(ctx context.Context, page, pageSize int) (pageResponse, error) {
	payload, err := b.spec.BuildPayload(MergeFilters(b.filters), Request{
		Page:      page,
		PageSize:  pageSize,
		SortField: b.sortField,
		SortOrder: b.sortOrder,
	})
	if err != nil {
		return pageResponse{}, err
	}

	data, err := b.exec.Execute(ctx, http.MethodPost, b.spec.Endpoint(), payload)
	if err != nil {
		return pageResponse{}, err
	}

	resp := pageResponse{}
	if rows, ok := data["results"].([]any); ok {
		resp.results = make([]map[string]any, 0, len(rows))
		for _, row := range rows {
			if m, ok := row.(map[string]any); ok {
				resp.results = append(resp.results, m)
			}
		}
	}
	if meta, ok := data["page_metadata"].(map[string]any); ok {
		resp.hasNext, _ = meta["hasNext"].(bool)
	}

	b.logger.Debug().
		Int("page", page).
		Int("results", len(resp.results)).
		Bool("has_next", resp.hasNext).
		Msg("fetched result page")

	return resp, nil
}

// clampIndex resolves a possibly negative index against length and
// clamps it into [0, length].
func clampIndex(i, length int) int {
	if i < 0 {
		i += length
	}
	return min(max(i, 0), length)
}
