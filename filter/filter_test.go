package filter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planetary-society/usaspending-orm-sub000/models"
)

func testAward() *models.Award {
	return &models.Award{
		AwardID:        "CONT_AWD_80NSSC20K0001",
		Category:       models.CategoryContracts,
		Description:    "Space telescope mirror assembly",
		RecipientName:  "State University Research Foundation",
		AwardingAgency: "National Aeronautics and Space Administration",
		Amount:         2500000,
		StartDate:      time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		LastModified:   time.Now().AddDate(0, 0, -10),
	}
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name string
		expr string
	}{
		{name: "empty expression", expr: ""},
		{name: "whitespace only", expr: "   "},
		{name: "syntax error", expr: "Award.Amount >"},
		{name: "non-boolean result", expr: "Award.Amount"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(tt.expr)
			require.Error(t, err)

			var cerr *CompilationError
			assert.ErrorAs(t, err, &cerr)
		})
	}
}

func TestMatches(t *testing.T) {
	tests := []struct {
		name string
		expr string
		want bool
	}{
		{
			name: "amount threshold",
			expr: "Award.Amount > 1000000",
			want: true,
		},
		{
			name: "amount threshold not met",
			expr: "Award.Amount > 10000000",
			want: false,
		},
		{
			name: "recipient contains",
			expr: `contains(Award.RecipientName, "university")`,
			want: true,
		},
		{
			name: "combined conditions",
			expr: `Award.Amount > 1000000 && startsWith(Award.AwardingAgency, "national")`,
			want: true,
		},
		{
			name: "category helper",
			expr: `category() == "contracts"`,
			want: true,
		},
		{
			name: "date helper",
			expr: "daysSince(Award.LastModified) < 30",
			want: true,
		},
		{
			name: "start date comparison",
			expr: `Award.StartDate > parseDate("2023-12-31")`,
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Compile(tt.expr)
			require.NoError(t, err)

			got, err := f.Matches(testAward())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApply(t *testing.T) {
	small := testAward()
	small.AwardID = "CONT_AWD_SMALL"
	small.Amount = 5000

	f, err := Compile("Award.Amount >= 1000000")
	require.NoError(t, err)

	matched, err := f.Apply([]*models.Award{testAward(), small})
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, "CONT_AWD_80NSSC20K0001", matched[0].AwardID)
}
