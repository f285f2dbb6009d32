package models

// Award type codes as defined by the USAspending API. Queries may not
// mix codes from different categories.
var (
	ContractCodes      = []string{"A", "B", "C", "D"}
	IDVCodes           = []string{"IDV_A", "IDV_B", "IDV_B_A", "IDV_B_B", "IDV_B_C", "IDV_C", "IDV_D", "IDV_E"}
	GrantCodes         = []string{"02", "03", "04", "05"}
	LoanCodes          = []string{"07", "08"}
	DirectPaymentCodes = []string{"06", "10"}
	OtherCodes         = []string{"09", "11", "-1"}
)

// AwardCategory identifies one of the API's award type groupings.
type AwardCategory string

// Categories as named by the spending_by_award_count endpoint.
const (
	CategoryContracts      AwardCategory = "contracts"
	CategoryIDVs           AwardCategory = "idvs"
	CategoryGrants         AwardCategory = "grants"
	CategoryLoans          AwardCategory = "loans"
	CategoryDirectPayments AwardCategory = "direct_payments"
	CategoryOther          AwardCategory = "other"
)

// awardCategoryCodes maps each category to its type codes.
var awardCategoryCodes = map[AwardCategory][]string{
	CategoryContracts:      ContractCodes,
	CategoryIDVs:           IDVCodes,
	CategoryGrants:         GrantCodes,
	CategoryLoans:          LoanCodes,
	CategoryDirectPayments: DirectPaymentCodes,
	CategoryOther:          OtherCodes,
}

// AwardTypeDescriptions maps each award type code to its human-readable name.
var AwardTypeDescriptions = map[string]string{
	"A":       "BPA Call",
	"B":       "Purchase Order",
	"C":       "Delivery Order",
	"D":       "Definitive Contract",
	"IDV_A":   "GWAC Government Wide Acquisition Contract",
	"IDV_B":   "IDC Multi-Agency Contract, Other Indefinite Delivery Contract",
	"IDV_B_A": "IDC Indefinite Delivery Contract / Requirements",
	"IDV_B_B": "IDC Indefinite Delivery Contract / Indefinite Quantity",
	"IDV_B_C": "IDC Indefinite Delivery Contract / Definite Quantity",
	"IDV_C":   "FSS Federal Supply Schedule",
	"IDV_D":   "BOA Basic Ordering Agreement",
	"IDV_E":   "BPA Blanket Purchase Agreement",
	"02":      "Block Grant",
	"03":      "Formula Grant",
	"04":      "Project Grant",
	"05":      "Cooperative Agreement",
	"06":      "Direct Payment for Specified Use",
	"07":      "Direct Loan",
	"08":      "Guaranteed/Insured Loan",
	"10":      "Direct Payment with Unrestricted Use",
	"09":      "Insurance",
	"11":      "Other Financial Assistance",
	"-1":      "Not Specified",
}

// CategoryOf returns the award category a type code belongs to, or ""
// when the code is unknown.
func CategoryOf(code string) AwardCategory {
	for category, codes := range awardCategoryCodes {
		for _, c := range codes {
			if c == code {
				return category
			}
		}
	}
	return ""
}

// CategoriesOf returns the distinct categories represented in codes,
// ignoring unknown codes.
func CategoriesOf(codes []string) []AwardCategory {
	seen := make(map[AwardCategory]bool)
	var out []AwardCategory
	for _, code := range codes {
		category := CategoryOf(code)
		if category != "" && !seen[category] {
			seen[category] = true
			out = append(out, category)
		}
	}
	return out
}
