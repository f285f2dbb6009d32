package models

import (
	"strconv"
	"time"
)

// getString reads the first non-empty string under any of the keys.
func getString(raw map[string]any, keys ...string) string {
	for _, key := range keys {
		if v, ok := raw[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

// getFloat reads the first numeric value under any of the keys. The API
// serves amounts both as JSON numbers and as strings.
func getFloat(raw map[string]any, keys ...string) float64 {
	for _, key := range keys {
		switch v := raw[key].(type) {
		case float64:
			return v
		case string:
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				return f
			}
		}
	}
	return 0
}

// getDate parses the first YYYY-MM-DD date found under any of the keys.
func getDate(raw map[string]any, keys ...string) time.Time {
	for _, key := range keys {
		if v, ok := raw[key].(string); ok && v != "" {
			if t, err := time.Parse("2006-01-02", v); err == nil {
				return t
			}
		}
	}
	return time.Time{}
}
