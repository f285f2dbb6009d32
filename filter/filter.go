// Package filter compiles expr-lang expressions into predicates over
// awards, used by the CLI to narrow results client-side after the API
// filters have been applied.
package filter

import (
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/planetary-society/usaspending-orm-sub000/models"
)

// Filter is a compiled expression evaluated against awards.
type Filter struct {
	program *vm.Program
	expr    string
}

// Compile compiles a filter expression. Expressions see the award as
// "Award" plus a set of helper functions, and must evaluate to a
// boolean, e.g.:
//
//	Award.Amount > 1000000 && contains(Award.RecipientName, "university")
//	daysSince(Award.LastModified) < 30
func Compile(expression string) (*Filter, error) {
	if strings.TrimSpace(expression) == "" {
		return nil, &CompilationError{Expression: expression, Reason: "empty filter expression"}
	}

	program, err := expr.Compile(expression,
		expr.Env(environment(&models.Award{})),
		expr.AsBool(),
	)
	if err != nil {
		return nil, &CompilationError{Expression: expression, Reason: err.Error(), Err: err}
	}

	return &Filter{
		program: program,
		expr:    expression,
	}, nil
}

// String returns the original expression.
func (f *Filter) String() string {
	return f.expr
}

// Matches evaluates the filter against an award.
func (f *Filter) Matches(award *models.Award) (bool, error) {
	output, err := expr.Run(f.program, environment(award))
	if err != nil {
		return false, &EvaluationError{
			Expression: f.expr,
			AwardID:    award.AwardID,
			Reason:     err.Error(),
			Err:        err,
		}
	}

	result, ok := output.(bool)
	if !ok {
		return false, &EvaluationError{
			Expression: f.expr,
			AwardID:    award.AwardID,
			Reason:     "expression did not evaluate to a boolean",
		}
	}
	return result, nil
}

// Apply returns the awards matching the filter, preserving order.
func (f *Filter) Apply(awards []*models.Award) ([]*models.Award, error) {
	matched := make([]*models.Award, 0, len(awards))
	for _, award := range awards {
		ok, err := f.Matches(award)
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, award)
		}
	}
	return matched, nil
}

// environment builds the evaluation environment for one award.
func environment(award *models.Award) map[string]interface{} {
	return map[string]interface{}{
		// Award data
		"Award": award,

		// Date helpers
		"daysSince": func(t time.Time) int {
			return int(time.Since(t).Hours() / 24)
		},
		"daysAgo": func(days int) time.Time {
			return time.Now().AddDate(0, 0, -days)
		},
		"monthsAgo": func(months int) time.Time {
			return time.Now().AddDate(0, -months, 0)
		},
		"yearsAgo": func(years int) time.Time {
			return time.Now().AddDate(-years, 0, 0)
		},
		"parseDate": func(dateStr string) time.Time {
			t, _ := time.Parse("2006-01-02", dateStr)
			return t
		},

		// String helpers
		"contains": func(str, substr string) bool {
			return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
		},
		"startsWith": func(str, prefix string) bool {
			return strings.HasPrefix(strings.ToLower(str), strings.ToLower(prefix))
		},
		"endsWith": func(str, suffix string) bool {
			return strings.HasSuffix(strings.ToLower(str), strings.ToLower(suffix))
		},
		"lower": strings.ToLower,
		"upper": strings.ToUpper,

		// Award helpers
		"category": func() string {
			return string(award.Category)
		},

		// Current time
		"now": time.Now,
	}
}
