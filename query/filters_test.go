package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// mapFilter is a literal filter fragment for tests.
type mapFilter map[string]any

func (m mapFilter) ToMap() map[string]any { return m }

func TestMergeFilters(t *testing.T) {
	tests := []struct {
		name    string
		filters []Filter
		want    map[string]any
	}{
		{
			name:    "no filters",
			filters: nil,
			want:    map[string]any{},
		},
		{
			name: "distinct keys",
			filters: []Filter{
				mapFilter{"keywords": []any{"space"}},
				mapFilter{"recipient_search_text": []any{"jpl"}},
			},
			want: map[string]any{
				"keywords":              []any{"space"},
				"recipient_search_text": []any{"jpl"},
			},
		},
		{
			name: "lists sharing a key concatenate in order",
			filters: []Filter{
				mapFilter{"award_type_codes": []any{"A", "B"}},
				mapFilter{"award_type_codes": []any{"C"}},
			},
			want: map[string]any{
				"award_type_codes": []any{"A", "B", "C"},
			},
		},
		{
			name: "non-list values overwrite",
			filters: []Filter{
				mapFilter{"keyword_search": "first"},
				mapFilter{"keyword_search": "second"},
			},
			want: map[string]any{
				"keyword_search": "second",
			},
		},
		{
			name: "empty values are dropped",
			filters: []Filter{
				mapFilter{
					"keywords":  []any{},
					"scope":     "",
					"locations": map[string]any{},
					"agency":    nil,
				},
			},
			want: map[string]any{},
		},
		{
			name: "empty list does not erase an existing list",
			filters: []Filter{
				mapFilter{"def_codes": []any{"L"}},
				mapFilter{"def_codes": []any{}},
			},
			want: map[string]any{
				"def_codes": []any{"L"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MergeFilters(tt.filters))
		})
	}
}

func TestStrings(t *testing.T) {
	assert.Equal(t, []any{"a", "b"}, Strings([]string{"a", "b"}))
	assert.Equal(t, []any{}, Strings(nil))
}
