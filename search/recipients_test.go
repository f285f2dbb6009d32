package search

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecipientsDefaults(t *testing.T) {
	exec := &fakeExec{
		responses: map[string]map[string]any{
			recipientsEndpoint: {
				"results": []any{
					map[string]any{
						"recipient_id":   "abc-123-P",
						"name":           "Jet Propulsion Laboratory",
						"uei":            "ABC123DEF456",
						"amount":         float64(98765432.10),
						"business_types": []any{"higher_education"},
					},
				},
				"page_metadata": map[string]any{"hasNext": false},
			},
		},
	}

	recipients, err := Recipients(exec, zerolog.Nop()).All(context.Background())
	require.NoError(t, err)

	require.Len(t, recipients, 1)
	assert.Equal(t, "Jet Propulsion Laboratory", recipients[0].Name)
	assert.Equal(t, "ABC123DEF456", recipients[0].UEI)
	assert.Equal(t, []string{"higher_education"}, recipients[0].BusinessTypes)

	require.Len(t, exec.requests, 1)
	payload := exec.requests[0].payload
	assert.Equal(t, "all", payload["award_type"])
	assert.Equal(t, "amount", payload["sort"])
	assert.Equal(t, "desc", payload["order"])
	_, hasKeyword := payload["keyword"]
	assert.False(t, hasKeyword, "empty keyword must be omitted")
}

func TestRecipientsKeywordAndAwardType(t *testing.T) {
	exec := &fakeExec{}

	_, err := Recipients(exec, zerolog.Nop()).
		Keyword("  propulsion  ").
		AwardType(RecipientAwardsContracts).
		All(context.Background())
	require.NoError(t, err)

	require.Len(t, exec.requests, 1)
	payload := exec.requests[0].payload
	assert.Equal(t, "propulsion", payload["keyword"])
	assert.Equal(t, "contracts", payload["award_type"])
}

func TestRecipientsCount(t *testing.T) {
	exec := &fakeExec{
		responses: map[string]map[string]any{
			recipientsCountEndpoint: {
				"count": float64(321),
			},
		},
	}

	count, err := Recipients(exec, zerolog.Nop()).
		Keyword("university").
		Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 321, count)

	require.Len(t, exec.requests, 1)
	req := exec.requests[0]
	assert.Equal(t, recipientsCountEndpoint, req.endpoint)
	assert.Equal(t, "university", req.payload["keyword"])
	assert.Equal(t, "all", req.payload["award_type"])
}
