package utils

import "strings"

// SanitizeJSON strips the Markdown code fences models like to wrap
// JSON payloads in (```json ... ```), leaving the bare document.
func SanitizeJSON(input string) string {
	cleaned := strings.TrimSpace(input)

	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")

	return strings.TrimSpace(cleaned)
}
