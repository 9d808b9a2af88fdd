package compat

import (
	"strings"

	"github.com/fleetgrid/partcompat/internal/models"
)

// ValidMatchType reports whether t is a known match type
func ValidMatchType(t string) bool {
	switch t {
	case models.MatchAny, models.MatchExact, models.MatchPrefix, models.MatchWildcard:
		return true
	}
	return false
}

// RuleMatches evaluates a rule's predicate against normalized
// equipment attributes. Inputs must already be normalized.
//
// Semantics per match type:
//   - any:      manufacturer equality only
//   - exact:    manufacturer and model both equal; a rule without a
//     model is the legacy "any model" form and matches every model
//   - prefix:   manufacturer equal, equipment model starts with the
//     rule's model pattern
//   - wildcard: manufacturer equal, equipment model matches the
//     pattern with SQL-LIKE '%' wildcard semantics
func RuleMatches(rule models.CompatibilityRule, manufacturerNorm, modelNorm string) bool {
	if rule.ManufacturerNorm == "" || rule.ManufacturerNorm != manufacturerNorm {
		return false
	}

	switch rule.MatchType {
	case models.MatchAny:
		return true
	case models.MatchExact:
		if rule.ModelNorm == "" {
			// Legacy rows: exact with no model means any model
			return true
		}
		return modelNorm == rule.ModelNorm
	case models.MatchPrefix:
		return strings.HasPrefix(modelNorm, rule.ModelNorm)
	case models.MatchWildcard:
		return likeMatch(rule.ModelNorm, modelNorm)
	}
	return false
}

// likeMatch implements case-preserving SQL-LIKE matching with '%' as
// the only wildcard. Both arguments are expected pre-normalized, so
// case-insensitivity falls out of normalization.
func likeMatch(pattern, s string) bool {
	if !strings.Contains(pattern, "%") {
		return pattern == s
	}

	parts := strings.Split(pattern, "%")

	// Anchor the first literal at the start
	if !strings.HasPrefix(s, parts[0]) {
		return false
	}
	s = s[len(parts[0]):]

	last := parts[len(parts)-1]

	// Middle literals must appear in order
	for _, mid := range parts[1 : len(parts)-1] {
		if mid == "" {
			continue
		}
		idx := strings.Index(s, mid)
		if idx < 0 {
			return false
		}
		s = s[idx+len(mid):]
	}

	// Anchor the last literal at the end
	return strings.HasSuffix(s, last)
}
