package models

import "time"

// Transaction is one row from the transactions endpoint.
type Transaction struct {
	ID                      string
	Type                    string
	TypeDescription         string
	ActionDate              time.Time
	ActionType              string
	ActionTypeDescription   string
	ModificationNumber      string
	Description             string
	FederalActionObligation float64

	Raw map[string]any
}

// NewTransaction builds a Transaction from a raw result row.
func NewTransaction(raw map[string]any) *Transaction {
	return &Transaction{
		ID:                    getString(raw, "id"),
		Type:                  getString(raw, "type"),
		TypeDescription:       getString(raw, "type_description"),
		ActionDate:            getDate(raw, "action_date"),
		ActionType:            getString(raw, "action_type"),
		ActionTypeDescription: getString(raw, "action_type_description"),
		ModificationNumber:    getString(raw, "modification_number"),
		Description:           getString(raw, "description"),
		FederalActionObligation: getFloat(raw,
			"federal_action_obligation",
			"face_value_loan_guarantee",
			"original_loan_subsidy_cost",
		),
		Raw: raw,
	}
}

// Amount is the transaction's monetary value regardless of award kind.
func (t *Transaction) Amount() float64 {
	return t.FederalActionObligation
}
