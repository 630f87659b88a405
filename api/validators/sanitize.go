package validators

import "strings"

// SanitizeString trims surrounding whitespace and, when maxLen is positive,
// truncates the result to at most maxLen bytes.
func SanitizeString(input string, maxLen int) string {
	trimmed := strings.TrimSpace(input)
	if maxLen > 0 && len(trimmed) > maxLen {
		trimmed = trimmed[:maxLen]
	}
	return trimmed
}
