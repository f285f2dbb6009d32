package search

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planetary-society/usaspending-orm-sub000/query"
)

// capturedRequest records one call through the fake executor.
type capturedRequest struct {
	method   string
	endpoint string
	payload  map[string]any
}

// fakeExec returns canned responses per endpoint and records every call.
type fakeExec struct {
	responses map[string]map[string]any
	requests  []capturedRequest
}

func (e *fakeExec) Execute(_ context.Context, method, endpoint string, payload map[string]any) (map[string]any, error) {
	e.requests = append(e.requests, capturedRequest{method: method, endpoint: endpoint, payload: payload})

	if resp, ok := e.responses[endpoint]; ok {
		return resp, nil
	}
	return map[string]any{
		"results":       []any{},
		"page_metadata": map[string]any{"hasNext": false},
	}, nil
}

func awardRow(id string, amount float64) map[string]any {
	return map[string]any{
		"Award ID":       id,
		"Recipient Name": "Jet Propulsion Laboratory",
		"Award Amount":   amount,
	}
}

func TestAwardsRequiresTypeCodes(t *testing.T) {
	exec := &fakeExec{}
	s := Awards(exec, zerolog.Nop()).Keywords("telescope")

	_, err := s.All(context.Background())
	require.Error(t, err)

	var verr *query.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Message, "award_type_codes")
	assert.Empty(t, exec.requests, "validation must fail before any request")
}

func TestAwardsRejectsMixedCategories(t *testing.T) {
	exec := &fakeExec{}
	s := Awards(exec, zerolog.Nop()).AwardTypeCodes("A", "02")

	_, err := s.All(context.Background())
	require.Error(t, err)

	var verr *query.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Message, "mix")
}

func TestAwardsContractsPayload(t *testing.T) {
	exec := &fakeExec{
		responses: map[string]map[string]any{
			awardsEndpoint: {
				"results":       []any{awardRow("80NSSC20K0001", 2500000)},
				"page_metadata": map[string]any{"hasNext": false},
			},
		},
	}

	awards, err := Awards(exec, zerolog.Nop()).
		Contracts().
		FiscalYear(2024).
		Agency("National Aeronautics and Space Administration").
		OrderBy("Award Amount", "desc").
		All(context.Background())
	require.NoError(t, err)

	require.Len(t, awards, 1)
	assert.Equal(t, "80NSSC20K0001", awards[0].AwardID)
	assert.Equal(t, 2500000.0, awards[0].Amount)
	assert.Equal(t, "contracts", string(awards[0].Category))

	require.Len(t, exec.requests, 1)
	req := exec.requests[0]
	assert.Equal(t, awardsEndpoint, req.endpoint)

	filters, ok := req.payload["filters"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, []any{"A", "B", "C", "D"}, filters["award_type_codes"])

	periods, ok := filters["time_period"].([]any)
	require.True(t, ok)
	require.Len(t, periods, 1)
	period := periods[0].(map[string]any)
	assert.Equal(t, "2023-10-01", period["start_date"])
	assert.Equal(t, "2024-09-30", period["end_date"])

	agencies, ok := filters["agencies"].([]any)
	require.True(t, ok)
	require.Len(t, agencies, 1)
	agency := agencies[0].(map[string]any)
	assert.Equal(t, "National Aeronautics and Space Administration", agency["name"])
	assert.Equal(t, "awarding", agency["type"])
	assert.Equal(t, "toptier", agency["tier"])

	assert.Equal(t, "Award Amount", req.payload["sort"])
	assert.Equal(t, "desc", req.payload["order"])

	fields, ok := req.payload["fields"].([]any)
	require.True(t, ok)
	assert.Contains(t, fields, "Award ID")
	assert.Contains(t, fields, "Contract Award Type")
}

func TestAwardsTypeCodesAccumulate(t *testing.T) {
	exec := &fakeExec{}
	s := Awards(exec, zerolog.Nop()).AwardTypeCodes("A").AwardTypeCodes("B")

	_, err := s.All(context.Background())
	require.NoError(t, err)

	require.Len(t, exec.requests, 1)
	filters := exec.requests[0].payload["filters"].(map[string]any)
	assert.Equal(t, []any{"A", "B"}, filters["award_type_codes"])
}

func TestAwardsBuilderForks(t *testing.T) {
	exec := &fakeExec{}
	base := Awards(exec, zerolog.Nop()).Contracts()

	nasa := base.Agency("National Aeronautics and Space Administration")
	nsf := base.Agency("National Science Foundation")

	_, err := nasa.All(context.Background())
	require.NoError(t, err)
	_, err = nsf.All(context.Background())
	require.NoError(t, err)

	require.Len(t, exec.requests, 2)
	first := exec.requests[0].payload["filters"].(map[string]any)["agencies"].([]any)
	second := exec.requests[1].payload["filters"].(map[string]any)["agencies"].([]any)
	assert.NotEqual(t, first, second, "forked chains must not share filters")
}

func TestAwardsCount(t *testing.T) {
	exec := &fakeExec{
		responses: map[string]map[string]any{
			awardsCountEndpoint: {
				"results": map[string]any{
					"contracts": float64(1337),
					"grants":    float64(10),
				},
			},
		},
	}

	count, err := Awards(exec, zerolog.Nop()).Contracts().Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1337, count)

	require.Len(t, exec.requests, 1)
	assert.Equal(t, awardsCountEndpoint, exec.requests[0].endpoint)
	_, hasLimit := exec.requests[0].payload["limit"]
	assert.False(t, hasLimit, "count payload carries filters only")
}

func TestAwardsCountRequiresCategory(t *testing.T) {
	exec := &fakeExec{}

	_, err := Awards(exec, zerolog.Nop()).Count(context.Background())
	require.Error(t, err)

	var verr *query.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestAwardsNAICSCodesWrapping(t *testing.T) {
	exec := &fakeExec{}
	s := Awards(exec, zerolog.Nop()).
		Contracts().
		NAICSCodes([]string{"3364", "5417"}, nil)

	_, err := s.All(context.Background())
	require.NoError(t, err)

	filters := exec.requests[0].payload["filters"].(map[string]any)
	naics, ok := filters["naics_codes"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, []any{[]any{"3364"}, []any{"5417"}}, naics["require"])
	_, hasExclude := naics["exclude"]
	assert.False(t, hasExclude)
}

func TestAwardsLocationFilters(t *testing.T) {
	exec := &fakeExec{}
	s := Awards(exec, zerolog.Nop()).
		Contracts().
		PlaceOfPerformanceLocations(LocationSpec{
			CountryCode: "USA",
			StateCode:   "CA",
			CityName:    "Pasadena",
		}).
		RecipientScope("domestic")

	_, err := s.All(context.Background())
	require.NoError(t, err)

	filters := exec.requests[0].payload["filters"].(map[string]any)

	locations := filters["place_of_performance_locations"].([]any)
	require.Len(t, locations, 1)
	loc := locations[0].(map[string]any)
	assert.Equal(t, "USA", loc["country"])
	assert.Equal(t, "CA", loc["state"])
	assert.Equal(t, "Pasadena", loc["city"])

	assert.Equal(t, "domestic", filters["recipient_scope"])
}

func TestAwardsTimePeriodWithType(t *testing.T) {
	exec := &fakeExec{}
	start := time.Date(2023, 10, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 9, 30, 0, 0, 0, 0, time.UTC)

	s := Awards(exec, zerolog.Nop()).
		Grants().
		TimePeriodWithType(start, end, DateTypeNewAwardsOnly)

	_, err := s.All(context.Background())
	require.NoError(t, err)

	filters := exec.requests[0].payload["filters"].(map[string]any)
	period := filters["time_period"].([]any)[0].(map[string]any)
	assert.Equal(t, "new_awards_only", period["date_type"])
}
