package services

import (
	"encoding/json"
	"strings"

	"contendo/models"
)

// SummaryVerdict is the parsed judge output.
type SummaryVerdict struct {
	Summary string         `json:"summary"`
	Verdict models.Verdict `json:"verdict"`
}

// stripFences removes leading/trailing markdown code-fence markers.
func stripFences(text string) string {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```JSON")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	return strings.TrimSpace(cleaned)
}

// NormalizeTurnText cleans raw model output for a free-text turn. Models
// occasionally echo structured output, so a JSON object with a "text" field
// is unwrapped first; otherwise fences and stray wrapping quotes are
// stripped. Never fails: the worst case is an empty string, which the
// orchestrator treats as a generation failure.
func NormalizeTurnText(raw string) string {
	cleaned := stripFences(raw)

	if strings.HasPrefix(cleaned, "{") {
		// A present "text" field always wins, even when empty: an empty
		// unwrapped turn must surface as empty output, not as the raw object.
		var wrapped struct {
			Text *string `json:"text"`
		}
		if err := json.Unmarshal([]byte(cleaned), &wrapped); err == nil && wrapped.Text != nil {
			return strings.TrimSpace(*wrapped.Text)
		}
	}

	cleaned = strings.Trim(cleaned, "\"'“”")
	return strings.TrimSpace(cleaned)
}

// extractJSONObject returns the first balanced {...} span in s, tracking
// string literals and escape sequences so braces inside strings are not
// miscounted. Returns "" when no balanced object exists.
func extractJSONObject(s string) string {
	start := -1
	depth := 0
	inString := false
	escaping := false

	for i, r := range s {
		if start == -1 {
			if r == '{' {
				start = i
				depth = 1
			}
			continue
		}
		if escaping {
			escaping = false
			continue
		}
		switch r {
		case '\\':
			if inString {
				escaping = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return s[start : i+1]
				}
			}
		}
	}
	return ""
}

// ParseSummaryVerdict extracts the judge's {summary, verdict} object from a
// model response that may be wrapped in fences or prose. Returns nil (never
// an error) when no valid object is found or the shape is invalid.
func ParseSummaryVerdict(raw string) *SummaryVerdict {
	candidate := stripFences(raw)

	var parsed SummaryVerdict
	if err := json.Unmarshal([]byte(candidate), &parsed); err != nil {
		span := extractJSONObject(candidate)
		if span == "" {
			return nil
		}
		parsed = SummaryVerdict{}
		if err := json.Unmarshal([]byte(span), &parsed); err != nil {
			return nil
		}
	}

	if strings.TrimSpace(parsed.Summary) == "" {
		return nil
	}
	switch parsed.Verdict.Winner {
	case "A", "B", "draw":
	default:
		return nil
	}
	if strings.TrimSpace(parsed.Verdict.Reason) == "" {
		return nil
	}
	return &parsed
}
