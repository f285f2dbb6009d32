package search

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/planetary-society/usaspending-orm-sub000/models"
	"github.com/planetary-society/usaspending-orm-sub000/query"
)

const (
	recipientsEndpoint      = "/recipient/"
	recipientsCountEndpoint = "/recipient/count/"
)

// RecipientAwardType narrows a recipient search to one award kind.
type RecipientAwardType string

// Award type groups accepted by the recipient search endpoint.
const (
	RecipientAwardsAll            RecipientAwardType = "all"
	RecipientAwardsContracts      RecipientAwardType = "contracts"
	RecipientAwardsGrants         RecipientAwardType = "grants"
	RecipientAwardsLoans          RecipientAwardType = "loans"
	RecipientAwardsDirectPayments RecipientAwardType = "direct_payments"
	RecipientAwardsOther          RecipientAwardType = "other_financial_assistance"
)

// RecipientsSearch is a fluent query over the recipient search endpoint,
// filtering by keyword and award type and sorting by name, duns or
// amount.
type RecipientsSearch struct {
	query.Builder[*models.Recipient]
	keyword   string
	awardType RecipientAwardType
}

// Recipients creates a recipient search bound to the given executor.
func Recipients(exec query.Executor, logger zerolog.Logger) RecipientsSearch {
	var s RecipientsSearch
	s.awardType = RecipientAwardsAll
	s.Builder = query.New[*models.Recipient](exec, recipientsSpec{awardType: RecipientAwardsAll}, logger).
		OrderBy("amount", "desc")
	return s
}

// Keyword filters by recipient name, UEI or DUNS.
func (s RecipientsSearch) Keyword(keyword string) RecipientsSearch {
	s.keyword = strings.TrimSpace(keyword)
	return s.withSpec()
}

// AwardType narrows the search to recipients of one award kind.
func (s RecipientsSearch) AwardType(awardType RecipientAwardType) RecipientsSearch {
	s.awardType = awardType
	return s.withSpec()
}

// Limit caps the total number of recipients returned.
func (s RecipientsSearch) Limit(n int) RecipientsSearch {
	s.Builder = s.Builder.Limit(n)
	return s
}

// PageSize sets the number of recipients fetched per request (max 100).
func (s RecipientsSearch) PageSize(n int) RecipientsSearch {
	s.Builder = s.Builder.PageSize(n)
	return s
}

// MaxPages caps the number of page fetches.
func (s RecipientsSearch) MaxPages(n int) RecipientsSearch {
	s.Builder = s.Builder.MaxPages(n)
	return s
}

// OrderBy sorts by "name", "duns" or "amount".
func (s RecipientsSearch) OrderBy(field, direction string) RecipientsSearch {
	s.Builder = s.Builder.OrderBy(field, direction)
	return s
}

func (s RecipientsSearch) withSpec() RecipientsSearch {
	s.Builder = s.Builder.WithSpec(recipientsSpec{keyword: s.keyword, awardType: s.awardType})
	return s
}

// recipientsSpec implements query.Spec and query.Counter for recipient
// queries.
type recipientsSpec struct {
	keyword   string
	awardType RecipientAwardType
}

func (sp recipientsSpec) Endpoint() string {
	return recipientsEndpoint
}

func (sp recipientsSpec) BuildPayload(_ map[string]any, req query.Request) (map[string]any, error) {
	payload := map[string]any{
		"page":       req.Page,
		"limit":      req.PageSize,
		"sort":       req.SortField,
		"order":      req.SortOrder,
		"award_type": string(sp.awardType),
	}
	if sp.keyword != "" {
		payload["keyword"] = sp.keyword
	}
	return payload, nil
}

func (sp recipientsSpec) Transform(raw map[string]any) (*models.Recipient, error) {
	return models.NewRecipient(raw), nil
}

// Count uses the dedicated recipient count endpoint, which takes the
// same filters without pagination parameters.
func (sp recipientsSpec) Count(ctx context.Context, exec query.Executor, _ map[string]any) (int, error) {
	payload := map[string]any{
		"award_type": string(sp.awardType),
	}
	if sp.keyword != "" {
		payload["keyword"] = sp.keyword
	}

	data, err := exec.Execute(ctx, http.MethodPost, recipientsCountEndpoint, payload)
	if err != nil {
		return 0, err
	}

	count, _ := data["count"].(float64)
	return int(count), nil
}
