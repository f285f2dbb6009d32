package models

// Recipient is one row from the recipient search endpoint.
type Recipient struct {
	RecipientID   string
	Name          string
	DUNS          string
	UEI           string
	BusinessTypes []string
	Amount        float64

	Raw map[string]any
}

// NewRecipient builds a Recipient from a raw result row.
func NewRecipient(raw map[string]any) *Recipient {
	r := &Recipient{
		RecipientID: getString(raw, "recipient_id", "id"),
		Name:        getString(raw, "name", "recipient_name"),
		DUNS:        getString(raw, "duns", "recipient_unique_id"),
		UEI:         getString(raw, "uei"),
		Amount:      getFloat(raw, "amount", "total_transaction_amount"),
		Raw:         raw,
	}

	if types, ok := raw["business_types"].([]any); ok {
		for _, t := range types {
			if s, ok := t.(string); ok {
				r.BusinessTypes = append(r.BusinessTypes, s)
			}
		}
	}

	return r
}
