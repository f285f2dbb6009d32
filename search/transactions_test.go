package search

import (
	"context"
	"net/http"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planetary-society/usaspending-orm-sub000/query"
)

const testAwardID = "CONT_AWD_80NSSC20K0001_8000_-NONE-_-NONE-"

func TestTransactionsRequireAwardID(t *testing.T) {
	exec := &fakeExec{}

	_, err := Transactions(exec, zerolog.Nop()).All(context.Background())
	require.Error(t, err)

	var verr *query.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Message, "award ID")
	assert.Empty(t, exec.requests)
}

func TestTransactionsPayload(t *testing.T) {
	exec := &fakeExec{
		responses: map[string]map[string]any{
			transactionsEndpoint: {
				"results": []any{
					map[string]any{
						"id":                        "123",
						"type":                      "A",
						"action_date":               "2024-03-15",
						"federal_action_obligation": float64(150000),
					},
				},
				"page_metadata": map[string]any{"hasNext": false},
			},
		},
	}

	transactions, err := Transactions(exec, zerolog.Nop()).
		ForAward("  " + testAwardID + "  ").
		OrderBy("action_date", "desc").
		All(context.Background())
	require.NoError(t, err)

	require.Len(t, transactions, 1)
	assert.Equal(t, "123", transactions[0].ID)
	assert.Equal(t, 150000.0, transactions[0].Amount())
	assert.Equal(t, 2024, transactions[0].ActionDate.Year())

	require.Len(t, exec.requests, 1)
	req := exec.requests[0]
	assert.Equal(t, transactionsEndpoint, req.endpoint)
	assert.Equal(t, testAwardID, req.payload["award_id"], "award ID must be trimmed")
	assert.Equal(t, "action_date", req.payload["sort"])
	assert.Equal(t, "desc", req.payload["order"])
}

func TestTransactionsCount(t *testing.T) {
	exec := &fakeExec{
		responses: map[string]map[string]any{
			"/awards/count/transaction/" + testAwardID + "/": {
				"transactions": float64(42),
			},
		},
	}

	count, err := Transactions(exec, zerolog.Nop()).
		ForAward(testAwardID).
		Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, count)

	require.Len(t, exec.requests, 1)
	assert.Equal(t, http.MethodGet, exec.requests[0].method)
}

func TestTransactionsCountRequiresAwardID(t *testing.T) {
	exec := &fakeExec{}

	_, err := Transactions(exec, zerolog.Nop()).Count(context.Background())
	require.Error(t, err)

	var verr *query.ValidationError
	assert.ErrorAs(t, err, &verr)
}
