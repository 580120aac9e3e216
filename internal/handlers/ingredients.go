package handlers

import (
	"encoding/json"
	"strings"
)

// NormalizeIngredients turns whatever shape the client sent (one delimited
// string such as "a, b, c" or newline-joined, repeated form values, or a
// JSON array string) into one ordered slice of trimmed, non-empty
// ingredients. "a, b, c" and ["a","b","c"] normalize to the identical result.
func NormalizeIngredients(values []string) []string {
	if len(values) == 0 {
		return nil
	}

	if len(values) == 1 {
		s := strings.TrimSpace(values[0])
		if strings.HasPrefix(s, "[") {
			var arr []string
			if err := json.Unmarshal([]byte(s), &arr); err == nil {
				values = arr
			}
		}
	}

	var out []string
	for _, v := range values {
		parts := strings.FieldsFunc(v, func(r rune) bool {
			return r == ',' || r == '\n' || r == '\r'
		})
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
