package models

import "time"

// AwardSearchFields are the base columns requested from the search
// endpoint for every award category.
var AwardSearchFields = []string{
	"Award ID",
	"Recipient Name",
	"Recipient DUNS Number",
	"recipient_id",
	"Description",
	"Award Amount",
	"Total Outlays",
	"Start Date",
	"End Date",
	"Awarding Agency",
	"Awarding Sub Agency",
	"Last Modified Date",
	"generated_internal_id",
}

// Category-specific columns appended to AwardSearchFields depending on
// the award type codes in the query.
var (
	ContractSearchFields = []string{"Contract Award Type", "NAICS", "PSC"}
	IDVSearchFields      = []string{"Contract Award Type", "Last Date to Order"}
	LoanSearchFields     = []string{"Issued Date", "Loan Value", "Subsidy Cost", "SAI Number", "CFDA Number"}
	GrantSearchFields    = []string{"Award Type", "SAI Number", "CFDA Number"}
)

// Award is one row from the award search endpoint.
type Award struct {
	AwardID           string
	GeneratedID       string
	Category          AwardCategory
	Description       string
	RecipientName     string
	RecipientDUNS     string
	AwardingAgency    string
	AwardingSubAgency string
	Amount            float64
	TotalOutlays      float64
	StartDate         time.Time
	EndDate           time.Time
	LastModified      time.Time

	// Raw keeps the original row for fields not mapped above.
	Raw map[string]any
}

// NewAwardFromSearch builds an Award from a raw search result row.
// category may be "" when the query mixed no single category.
func NewAwardFromSearch(raw map[string]any, category AwardCategory) *Award {
	return &Award{
		AwardID:           getString(raw, "Award ID", "piid", "fain", "uri"),
		GeneratedID:       getString(raw, "generated_internal_id", "generated_unique_award_id"),
		Category:          category,
		Description:       getString(raw, "Description", "description"),
		RecipientName:     getString(raw, "Recipient Name"),
		RecipientDUNS:     getString(raw, "Recipient DUNS Number"),
		AwardingAgency:    getString(raw, "Awarding Agency"),
		AwardingSubAgency: getString(raw, "Awarding Sub Agency"),
		Amount:            getFloat(raw, "Award Amount", "total_obligation", "Loan Value"),
		TotalOutlays:      getFloat(raw, "Total Outlays"),
		StartDate:         getDate(raw, "Start Date", "Issued Date"),
		EndDate:           getDate(raw, "End Date"),
		LastModified:      getDate(raw, "Last Modified Date"),
		Raw:               raw,
	}
}
