package compat

import "strings"

// Normalize canonicalizes a raw part-number/manufacturer/model string
// into its comparison key. It is total over strings and idempotent;
// every comparison and every stored *_norm column goes through it so
// that "CAT-1R-0750" and " cat-1r-0750 " collide correctly.
func Normalize(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
