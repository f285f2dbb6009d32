package query

// Filter is a serializable fragment of the API's JSON filter payload,
// contributed by one independently configured predicate. List values
// must be encoded as []any so that fragments sharing a key can be
// concatenated by MergeFilters.
type Filter interface {
	ToMap() map[string]any
}

// MergeFilters aggregates filter fragments into a single payload map.
// Fragments are applied in insertion order with a fixed merge rule:
//
//   - if the key already holds a list and the new value is a list, the
//     lists are concatenated
//   - otherwise a non-empty value overwrites the existing one
//   - empty values are dropped entirely, keeping the payload minimal
func MergeFilters(filters []Filter) map[string]any {
	merged := make(map[string]any)

	for _, f := range filters {
		for key, value := range f.ToMap() {
			if existing, ok := merged[key].([]any); ok {
				if incoming, ok := value.([]any); ok {
					merged[key] = append(existing, incoming...)
					continue
				}
			}
			if !emptyValue(value) {
				merged[key] = value
			}
		}
	}

	return merged
}

// emptyValue reports whether a fragment value carries no information and
// should be omitted from the payload.
func emptyValue(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	case []any:
		return len(x) == 0
	case map[string]any:
		return len(x) == 0
	default:
		return false
	}
}

// Strings converts a string slice to the []any list form filters use.
func Strings(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
