package search

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/rs/zerolog"

	"github.com/planetary-society/usaspending-orm-sub000/models"
	"github.com/planetary-society/usaspending-orm-sub000/query"
)

const (
	awardsEndpoint      = "/search/spending_by_award/"
	awardsCountEndpoint = "/search/spending_by_award_count/"
)

// AwardsSearch is a fluent query over the award search endpoint. Every
// filter method returns a new value; the receiver is never modified.
//
// The API requires at least one award type code and rejects queries
// mixing codes from different categories; both rules are enforced when
// the query executes.
type AwardsSearch struct {
	query.Builder[*models.Award]
	typeCodes []string
}

// Awards creates an award search bound to the given executor.
func Awards(exec query.Executor, logger zerolog.Logger) AwardsSearch {
	var s AwardsSearch
	s.Builder = query.New(exec, awardsSpec{}, logger)
	return s
}

// Limit caps the total number of awards returned across all pages.
func (s AwardsSearch) Limit(n int) AwardsSearch {
	s.Builder = s.Builder.Limit(n)
	return s
}

// PageSize sets the number of awards fetched per request (max 100).
func (s AwardsSearch) PageSize(n int) AwardsSearch {
	s.Builder = s.Builder.PageSize(n)
	return s
}

// MaxPages caps the number of page fetches.
func (s AwardsSearch) MaxPages(n int) AwardsSearch {
	s.Builder = s.Builder.MaxPages(n)
	return s
}

// OrderBy sorts results by a field from the requested field list.
func (s AwardsSearch) OrderBy(field, direction string) AwardsSearch {
	s.Builder = s.Builder.OrderBy(field, direction)
	return s
}

// AwardTypeCodes filters by award type codes. The API requires this
// filter on every query.
func (s AwardsSearch) AwardTypeCodes(codes ...string) AwardsSearch {
	s.typeCodes = append(slices.Clone(s.typeCodes), codes...)
	s.Builder = s.Builder.
		AddFilter(SimpleListFilter{Key: "award_type_codes", Values: codes}).
		WithSpec(awardsSpec{typeCodes: s.typeCodes})
	return s
}

// Contracts narrows the search to procurement contracts (types A-D).
func (s AwardsSearch) Contracts() AwardsSearch {
	return s.AwardTypeCodes(models.ContractCodes...)
}

// IDVs narrows the search to indefinite delivery vehicles.
func (s AwardsSearch) IDVs() AwardsSearch {
	return s.AwardTypeCodes(models.IDVCodes...)
}

// Grants narrows the search to grant awards (types 02-05).
func (s AwardsSearch) Grants() AwardsSearch {
	return s.AwardTypeCodes(models.GrantCodes...)
}

// Loans narrows the search to loan awards (types 07-08).
func (s AwardsSearch) Loans() AwardsSearch {
	return s.AwardTypeCodes(models.LoanCodes...)
}

// DirectPayments narrows the search to direct payment awards.
func (s AwardsSearch) DirectPayments() AwardsSearch {
	return s.AwardTypeCodes(models.DirectPaymentCodes...)
}

// OtherAssistance narrows the search to insurance and other assistance.
func (s AwardsSearch) OtherAssistance() AwardsSearch {
	return s.AwardTypeCodes(models.OtherCodes...)
}

// Keywords searches across award descriptions, recipient names and
// other text fields. Multiple keywords combine with OR logic.
func (s AwardsSearch) Keywords(keywords ...string) AwardsSearch {
	s.Builder = s.Builder.AddFilter(SimpleListFilter{Key: "keywords", Values: keywords})
	return s
}

// TimePeriod restricts the search to awards within the date range.
func (s AwardsSearch) TimePeriod(start, end time.Time) AwardsSearch {
	return s.TimePeriodWithType(start, end, "")
}

// TimePeriodWithType restricts the search to a date range matched
// against a specific award date type.
func (s AwardsSearch) TimePeriodWithType(start, end time.Time, dateType AwardDateType) AwardsSearch {
	s.Builder = s.Builder.AddFilter(TimePeriodFilter{
		StartDate: start,
		EndDate:   end,
		DateType:  dateType,
	})
	return s
}

// FiscalYear restricts the search to one U.S. government fiscal year,
// which runs October 1 of the prior calendar year through September 30.
func (s AwardsSearch) FiscalYear(year int) AwardsSearch {
	start := time.Date(year-1, time.October, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year, time.September, 30, 0, 0, 0, 0, time.UTC)
	return s.TimePeriod(start, end)
}

// Agencies filters by one or more awarding or funding agencies.
func (s AwardsSearch) Agencies(agencies ...AgencySpec) AwardsSearch {
	s.Builder = s.Builder.AddFilter(AgencyFilter{Agencies: agencies})
	return s
}

// Agency filters by a single toptier awarding agency by name.
func (s AwardsSearch) Agency(name string) AwardsSearch {
	return s.Agencies(AgencySpec{
		Name: name,
		Type: AgencyTypeAwarding,
		Tier: AgencyTierToptier,
	})
}

// RecipientSearchText searches recipient names, UEIs and DUNS numbers.
func (s AwardsSearch) RecipientSearchText(terms ...string) AwardsSearch {
	s.Builder = s.Builder.AddFilter(SimpleListFilter{Key: "recipient_search_text", Values: terms})
	return s
}

// RecipientTypeNames filters by recipient or business types, e.g.
// "small_business" or "higher_education".
func (s AwardsSearch) RecipientTypeNames(names ...string) AwardsSearch {
	s.Builder = s.Builder.AddFilter(SimpleListFilter{Key: "recipient_type_names", Values: names})
	return s
}

// AwardIDs filters by exact award identifiers (PIID, FAIN or URI).
func (s AwardsSearch) AwardIDs(ids ...string) AwardsSearch {
	s.Builder = s.Builder.AddFilter(SimpleListFilter{Key: "award_ids", Values: ids})
	return s
}

// AwardAmounts filters by award amount ranges.
func (s AwardsSearch) AwardAmounts(amounts ...AmountRange) AwardsSearch {
	s.Builder = s.Builder.AddFilter(AwardAmountFilter{Amounts: amounts})
	return s
}

// NAICSCodes filters by NAICS industry codes.
func (s AwardsSearch) NAICSCodes(require, exclude []string) AwardsSearch {
	s.Builder = s.Builder.AddFilter(TieredCodeFilter{
		Key:     "naics_codes",
		Require: singletonPaths(require),
		Exclude: singletonPaths(exclude),
	})
	return s
}

// PSCCodes filters by hierarchical product and service code paths.
func (s AwardsSearch) PSCCodes(require, exclude [][]string) AwardsSearch {
	s.Builder = s.Builder.AddFilter(TieredCodeFilter{Key: "psc_codes", Require: require, Exclude: exclude})
	return s
}

// TASCodes filters by Treasury Account Symbol code paths.
func (s AwardsSearch) TASCodes(require, exclude [][]string) AwardsSearch {
	s.Builder = s.Builder.AddFilter(TieredCodeFilter{Key: "tas_codes", Require: require, Exclude: exclude})
	return s
}

// TreasuryAccountComponents filters by TAS components (aid, main, ...).
func (s AwardsSearch) TreasuryAccountComponents(components ...map[string]string) AwardsSearch {
	s.Builder = s.Builder.AddFilter(TreasuryAccountComponentsFilter{Components: components})
	return s
}

// DEFCodes filters by disaster emergency fund codes.
func (s AwardsSearch) DEFCodes(codes ...string) AwardsSearch {
	s.Builder = s.Builder.AddFilter(SimpleListFilter{Key: "def_codes", Values: codes})
	return s
}

// SetAsideTypeCodes filters contracts by set-aside type.
func (s AwardsSearch) SetAsideTypeCodes(codes ...string) AwardsSearch {
	s.Builder = s.Builder.AddFilter(SimpleListFilter{Key: "set_aside_type_codes", Values: codes})
	return s
}

// ContractPricingTypeCodes filters contracts by pricing type.
func (s AwardsSearch) ContractPricingTypeCodes(codes ...string) AwardsSearch {
	s.Builder = s.Builder.AddFilter(SimpleListFilter{Key: "contract_pricing_type_codes", Values: codes})
	return s
}

// ProgramNumbers filters by CFDA / assistance listing numbers.
func (s AwardsSearch) ProgramNumbers(numbers ...string) AwardsSearch {
	s.Builder = s.Builder.AddFilter(SimpleListFilter{Key: "program_numbers", Values: numbers})
	return s
}

// PlaceOfPerformanceScope filters to "domestic" or "foreign" places of
// performance.
func (s AwardsSearch) PlaceOfPerformanceScope(scope string) AwardsSearch {
	s.Builder = s.Builder.AddFilter(LocationScopeFilter{Key: "place_of_performance_scope", Scope: scope})
	return s
}

// PlaceOfPerformanceLocations filters by specific places of performance.
func (s AwardsSearch) PlaceOfPerformanceLocations(locations ...LocationSpec) AwardsSearch {
	s.Builder = s.Builder.AddFilter(LocationFilter{Key: "place_of_performance_locations", Locations: locations})
	return s
}

// RecipientScope filters to "domestic" or "foreign" recipients.
func (s AwardsSearch) RecipientScope(scope string) AwardsSearch {
	s.Builder = s.Builder.AddFilter(LocationScopeFilter{Key: "recipient_scope", Scope: scope})
	return s
}

// RecipientLocations filters by specific recipient locations.
func (s AwardsSearch) RecipientLocations(locations ...LocationSpec) AwardsSearch {
	s.Builder = s.Builder.AddFilter(LocationFilter{Key: "recipient_locations", Locations: locations})
	return s
}

// singletonPaths wraps flat codes in single-element paths; the API
// expects a list of lists even for non-hierarchical NAICS codes.
func singletonPaths(codes []string) [][]string {
	if len(codes) == 0 {
		return nil
	}
	out := make([][]string, 0, len(codes))
	for _, c := range codes {
		out = append(out, []string{c})
	}
	return out
}

// awardsSpec implements query.Spec and query.Counter for award queries.
type awardsSpec struct {
	typeCodes []string
}

func (sp awardsSpec) Endpoint() string {
	return awardsEndpoint
}

func (sp awardsSpec) BuildPayload(filters map[string]any, req query.Request) (map[string]any, error) {
	if _, ok := filters["award_type_codes"]; !ok {
		return nil, &query.ValidationError{
			Message: "a filter for award_type_codes is required; use AwardTypeCodes or a category method",
		}
	}
	if categories := models.CategoriesOf(sp.typeCodes); len(categories) > 1 {
		return nil, &query.ValidationError{
			Message: fmt.Sprintf("cannot mix award type categories in one query: %v", categories),
		}
	}

	payload := map[string]any{
		"filters": filters,
		"fields":  sp.fields(),
		"limit":   req.PageSize,
		"page":    req.Page,
	}
	if req.SortField != "" {
		payload["sort"] = req.SortField
		payload["order"] = req.SortOrder
	}
	return payload, nil
}

func (sp awardsSpec) Transform(raw map[string]any) (*models.Award, error) {
	return models.NewAwardFromSearch(raw, sp.category()), nil
}

// Count uses the dedicated count endpoint, which groups counts by award
// category, and returns the count for the category being queried.
func (sp awardsSpec) Count(ctx context.Context, exec query.Executor, filters map[string]any) (int, error) {
	category := sp.category()
	if category == "" {
		return 0, &query.ValidationError{
			Message: "count requires a single award type category; use AwardTypeCodes or a category method",
		}
	}

	data, err := exec.Execute(ctx, http.MethodPost, awardsCountEndpoint, map[string]any{
		"filters": filters,
	})
	if err != nil {
		return 0, err
	}

	results, _ := data["results"].(map[string]any)
	count, _ := results[string(category)].(float64)
	return int(count), nil
}

// category resolves the single award category selected by the filters,
// or "" when none or several are present.
func (sp awardsSpec) category() models.AwardCategory {
	categories := models.CategoriesOf(sp.typeCodes)
	if len(categories) == 1 {
		return categories[0]
	}
	return ""
}

// fields is the column list requested from the search endpoint; the API
// returns different columns per award category.
func (sp awardsSpec) fields() []any {
	fields := slices.Clone(models.AwardSearchFields)
	switch sp.category() {
	case models.CategoryContracts:
		fields = append(fields, models.ContractSearchFields...)
	case models.CategoryIDVs:
		fields = append(fields, models.IDVSearchFields...)
	case models.CategoryLoans:
		fields = append(fields, models.LoanSearchFields...)
	case models.CategoryGrants, models.CategoryDirectPayments, models.CategoryOther:
		fields = append(fields, models.GrantSearchFields...)
	}
	return query.Strings(fields)
}
