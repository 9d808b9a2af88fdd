package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fleetgrid/partcompat/internal/utils"
)

// Suggestion is one AI-proposed cross-reference candidate. Suggestions
// are advisory only; nothing is written until a human registers the
// identifier or groups it.
type Suggestion struct {
	Value          string  `json:"value"`
	IdentifierType string  `json:"identifierType"`
	Manufacturer   string  `json:"manufacturer,omitempty"`
	Confidence     float64 `json:"confidence"`
	Rationale      string  `json:"rationale,omitempty"`
}

// Suggester proposes alternate part numbers for a given part number.
// A nil Suggester (no API key configured) is valid and always reports
// itself unavailable.
type Suggester struct {
	client *GeminiClient
}

// NewSuggester wires the Gemini client. Returns nil when apiKey is
// empty so callers can treat the feature as absent.
func NewSuggester(ctx context.Context, apiKey, model string) (*Suggester, error) {
	if apiKey == "" {
		return nil, nil
	}
	client, err := NewGeminiClient(ctx, apiKey, model)
	if err != nil {
		return nil, err
	}
	return &Suggester{client: client}, nil
}

// Available reports whether suggestions can be served
func (s *Suggester) Available() bool {
	return s != nil && s.client != nil
}

// Close releases the underlying client
func (s *Suggester) Close() {
	if s != nil && s.client != nil {
		s.client.Close()
	}
}

// SuggestAlternates asks the model for likely interchangeable part
// numbers. The manufacturer hint is optional.
func (s *Suggester) SuggestAlternates(ctx context.Context, partNumber, manufacturer string) ([]Suggestion, error) {
	if !s.Available() {
		return nil, fmt.Errorf("ai suggestions are not configured")
	}

	var b strings.Builder
	b.WriteString("You are a heavy-equipment parts cross-reference assistant.\n")
	b.WriteString("List aftermarket or OEM part numbers interchangeable with the part below.\n")
	b.WriteString("Respond ONLY with a JSON array of objects with keys: ")
	b.WriteString(`"value", "identifierType" (one of oem, aftermarket, mpn, upc, cross_ref), "manufacturer", "confidence" (0..1), "rationale".` + "\n")
	fmt.Fprintf(&b, "Part number: %s\n", partNumber)
	if manufacturer != "" {
		fmt.Fprintf(&b, "Manufacturer: %s\n", manufacturer)
	}

	raw, err := s.client.GenerateContent(ctx, b.String())
	if err != nil {
		return nil, err
	}

	var suggestions []Suggestion
	if err := json.Unmarshal([]byte(utils.SanitizeJSON(raw)), &suggestions); err != nil {
		return nil, fmt.Errorf("failed to parse ai response: %w", err)
	}

	// Drop rows the model left blank
	out := suggestions[:0]
	for _, sg := range suggestions {
		if strings.TrimSpace(sg.Value) != "" {
			out = append(out, sg)
		}
	}
	return out, nil
}
