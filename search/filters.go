package search

import (
	"time"

	"github.com/planetary-society/usaspending-orm-sub000/query"
)

// AwardDateType selects which award date a time period filter matches.
type AwardDateType string

// Date types accepted by the time_period filter.
const (
	DateTypeActionDate       AwardDateType = "action_date"
	DateTypeDateSigned       AwardDateType = "date_signed"
	DateTypeLastModifiedDate AwardDateType = "last_modified_date"
	DateTypeNewAwardsOnly    AwardDateType = "new_awards_only"
)

// AgencyType distinguishes who manages an award from who funds it.
type AgencyType string

// AgencyTier distinguishes departments from their sub-agencies.
type AgencyTier string

// Agency filter dimensions.
const (
	AgencyTypeAwarding AgencyType = "awarding"
	AgencyTypeFunding  AgencyType = "funding"
	AgencyTierToptier  AgencyTier = "toptier"
	AgencyTierSubtier  AgencyTier = "subtier"
)

// SimpleListFilter serializes to a flat list of string values under one
// payload key. Most filters are this shape.
type SimpleListFilter struct {
	Key    string
	Values []string
}

// ToMap implements query.Filter.
func (f SimpleListFilter) ToMap() map[string]any {
	return map[string]any{f.Key: query.Strings(f.Values)}
}

// TimePeriodFilter restricts results to a date range.
type TimePeriodFilter struct {
	StartDate time.Time
	EndDate   time.Time
	DateType  AwardDateType
}

// ToMap implements query.Filter.
func (f TimePeriodFilter) ToMap() map[string]any {
	period := map[string]any{
		"start_date": f.StartDate.Format("2006-01-02"),
		"end_date":   f.EndDate.Format("2006-01-02"),
	}
	if f.DateType != "" {
		period["date_type"] = string(f.DateType)
	}
	return map[string]any{"time_period": []any{period}}
}

// AgencySpec identifies one awarding or funding agency.
type AgencySpec struct {
	Name        string
	Type        AgencyType
	Tier        AgencyTier
	ToptierName string
}

// AgencyFilter restricts results to specific agencies.
type AgencyFilter struct {
	Agencies []AgencySpec
}

// ToMap implements query.Filter.
func (f AgencyFilter) ToMap() map[string]any {
	agencies := make([]any, 0, len(f.Agencies))
	for _, a := range f.Agencies {
		agency := map[string]any{
			"name": a.Name,
			"type": string(a.Type),
			"tier": string(a.Tier),
		}
		if a.ToptierName != "" {
			agency["toptier_name"] = a.ToptierName
		}
		agencies = append(agencies, agency)
	}
	return map[string]any{"agencies": agencies}
}

// AmountRange bounds an award amount; a nil bound is unbounded.
type AmountRange struct {
	LowerBound *float64
	UpperBound *float64
}

// AwardAmountFilter restricts results to awards within amount ranges.
type AwardAmountFilter struct {
	Amounts []AmountRange
}

// ToMap implements query.Filter.
func (f AwardAmountFilter) ToMap() map[string]any {
	amounts := make([]any, 0, len(f.Amounts))
	for _, a := range f.Amounts {
		amount := map[string]any{}
		if a.LowerBound != nil {
			amount["lower_bound"] = *a.LowerBound
		}
		if a.UpperBound != nil {
			amount["upper_bound"] = *a.UpperBound
		}
		amounts = append(amounts, amount)
	}
	return map[string]any{"award_amounts": amounts}
}

// TieredCodeFilter covers hierarchical code filters (naics_codes,
// psc_codes, tas_codes) with require/exclude path lists.
type TieredCodeFilter struct {
	Key     string
	Require [][]string
	Exclude [][]string
}

// ToMap implements query.Filter.
func (f TieredCodeFilter) ToMap() map[string]any {
	data := map[string]any{}
	if len(f.Require) > 0 {
		data["require"] = pathList(f.Require)
	}
	if len(f.Exclude) > 0 {
		data["exclude"] = pathList(f.Exclude)
	}
	return map[string]any{f.Key: data}
}

func pathList(paths [][]string) []any {
	out := make([]any, 0, len(paths))
	for _, p := range paths {
		out = append(out, query.Strings(p))
	}
	return out
}

// LocationSpec identifies one geographic location.
type LocationSpec struct {
	CountryCode string
	StateCode   string
	CountyCode  string
	CityName    string
	District    string
	ZIPCode     string
}

func (l LocationSpec) toMap() map[string]any {
	loc := map[string]any{"country": l.CountryCode}
	if l.StateCode != "" {
		loc["state"] = l.StateCode
	}
	if l.CountyCode != "" {
		loc["county"] = l.CountyCode
	}
	if l.CityName != "" {
		loc["city"] = l.CityName
	}
	if l.District != "" {
		loc["district_original"] = l.District
	}
	if l.ZIPCode != "" {
		loc["zip"] = l.ZIPCode
	}
	return loc
}

// LocationFilter restricts results to specific locations; Key selects
// place_of_performance_locations or recipient_locations.
type LocationFilter struct {
	Key       string
	Locations []LocationSpec
}

// ToMap implements query.Filter.
func (f LocationFilter) ToMap() map[string]any {
	locations := make([]any, 0, len(f.Locations))
	for _, l := range f.Locations {
		locations = append(locations, l.toMap())
	}
	return map[string]any{f.Key: locations}
}

// LocationScopeFilter restricts results to domestic or foreign; Key
// selects place_of_performance_scope or recipient_scope.
type LocationScopeFilter struct {
	Key   string
	Scope string
}

// ToMap implements query.Filter.
func (f LocationScopeFilter) ToMap() map[string]any {
	return map[string]any{f.Key: f.Scope}
}

// TreasuryAccountComponentsFilter restricts results by Treasury Account
// Symbol components (aid, main, sub, ...).
type TreasuryAccountComponentsFilter struct {
	Components []map[string]string
}

// ToMap implements query.Filter.
func (f TreasuryAccountComponentsFilter) ToMap() map[string]any {
	components := make([]any, 0, len(f.Components))
	for _, c := range f.Components {
		component := make(map[string]any, len(c))
		for k, v := range c {
			component[k] = v
		}
		components = append(components, component)
	}
	return map[string]any{"treasury_account_components": components}
}
