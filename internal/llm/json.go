package llm

import (
	"raid-parser/internal/models"
)

// ExtractJSON returns the first balanced {...} substring of raw. Models wrap
// their JSON in prose or markdown fences often enough that trimming is not
// sufficient; this walks the text tracking brace depth with string-literal
// awareness.
func ExtractJSON(raw string) (string, error) {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i, r := range raw {
		if start >= 0 && inString {
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true
			case r == '"':
				inString = false
			}
			continue
		}
		switch r {
		case '{':
			if start < 0 {
				start = i
			}
			depth++
		case '}':
			if start >= 0 {
				depth--
				if depth == 0 {
					return raw[start : i+1], nil
				}
			}
		case '"':
			if start >= 0 {
				inString = true
			}
		}
	}
	return "", models.ErrNoJSON
}
