package search

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/planetary-society/usaspending-orm-sub000/models"
	"github.com/planetary-society/usaspending-orm-sub000/query"
)

const transactionsEndpoint = "/transactions/"

// TransactionsSearch is a fluent query over the transactions endpoint.
// The API scopes transactions to one award, so ForAward is required
// before the query executes.
type TransactionsSearch struct {
	query.Builder[*models.Transaction]
	awardID string
}

// Transactions creates a transaction search bound to the given executor.
func Transactions(exec query.Executor, logger zerolog.Logger) TransactionsSearch {
	var s TransactionsSearch
	s.Builder = query.New(exec, transactionsSpec{}, logger)
	return s
}

// ForAward scopes the search to a single award's transactions.
func (s TransactionsSearch) ForAward(awardID string) TransactionsSearch {
	s.awardID = strings.TrimSpace(awardID)
	s.Builder = s.Builder.WithSpec(transactionsSpec{awardID: s.awardID})
	return s
}

// Limit caps the total number of transactions returned.
func (s TransactionsSearch) Limit(n int) TransactionsSearch {
	s.Builder = s.Builder.Limit(n)
	return s
}

// PageSize sets the number of transactions fetched per request (max 100).
func (s TransactionsSearch) PageSize(n int) TransactionsSearch {
	s.Builder = s.Builder.PageSize(n)
	return s
}

// MaxPages caps the number of page fetches.
func (s TransactionsSearch) MaxPages(n int) TransactionsSearch {
	s.Builder = s.Builder.MaxPages(n)
	return s
}

// OrderBy sorts results by the given field and direction.
func (s TransactionsSearch) OrderBy(field, direction string) TransactionsSearch {
	s.Builder = s.Builder.OrderBy(field, direction)
	return s
}

// transactionsSpec implements query.Spec and query.Counter for
// transaction queries.
type transactionsSpec struct {
	awardID string
}

func (sp transactionsSpec) Endpoint() string {
	return transactionsEndpoint
}

func (sp transactionsSpec) BuildPayload(filters map[string]any, req query.Request) (map[string]any, error) {
	if sp.awardID == "" {
		return nil, &query.ValidationError{Message: "an award ID is required; use ForAward"}
	}

	payload := map[string]any{
		"award_id": sp.awardID,
		"limit":    req.PageSize,
		"page":     req.Page,
	}
	if req.SortField != "" {
		payload["sort"] = req.SortField
		payload["order"] = req.SortOrder
	}
	for key, value := range filters {
		payload[key] = value
	}
	return payload, nil
}

func (sp transactionsSpec) Transform(raw map[string]any) (*models.Transaction, error) {
	return models.NewTransaction(raw), nil
}

// Count uses the per-award transaction count endpoint.
func (sp transactionsSpec) Count(ctx context.Context, exec query.Executor, _ map[string]any) (int, error) {
	if sp.awardID == "" {
		return 0, &query.ValidationError{Message: "an award ID is required; use ForAward"}
	}

	data, err := exec.Execute(ctx, http.MethodGet, "/awards/count/transaction/"+sp.awardID+"/", nil)
	if err != nil {
		return 0, err
	}

	count, _ := data["transactions"].(float64)
	return int(count), nil
}
