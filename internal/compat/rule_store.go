package compat

import (
	"context"
	"errors"
	"strings"

	"github.com/fleetgrid/partcompat/internal/models"
	"gorm.io/gorm"
)

// RuleInput is one rule of a replace-rules request
type RuleInput struct {
	Manufacturer string  `json:"manufacturer"`
	Model        *string `json:"model,omitempty"`
	MatchType    string  `json:"matchType,omitempty"`
	Verification string  `json:"verification,omitempty"`
	Notes        string  `json:"notes,omitempty"`
}

// RuleStore owns compatibility rules. The only write path is
// ReplaceRules: full replace-on-save, never a partial update.
type RuleStore struct {
	db *gorm.DB
}

// NewRuleStore creates a rule store
func NewRuleStore(db *gorm.DB) *RuleStore {
	return &RuleStore{db: db}
}

// RulesForScope returns the active rule set for one scope
func (s *RuleStore) RulesForScope(ctx context.Context, scope RuleScope) ([]models.CompatibilityRule, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	var rules []models.CompatibilityRule
	err := s.db.WithContext(ctx).
		Where("organization_id = ? AND item_id = ? AND template_id = ?",
			scope.OrganizationID, scope.ItemID, scope.TemplateID).
		Order("manufacturer_norm ASC, model_norm ASC").
		Find(&rules).Error
	if err != nil {
		return nil, err
	}
	return rules, nil
}

// ReplaceRules atomically replaces the rule set for a scope:
// delete existing rules, then insert the provided set. Rules with an
// empty manufacturer (after trimming) are skipped; duplicate
// (manufacturer_norm, model_norm) pairs within the call are
// deduplicated first-wins. Returns the number of rules inserted.
// Any failure rolls the whole call back, leaving the prior set intact.
func (s *RuleStore) ReplaceRules(ctx context.Context, scope RuleScope, inputs []RuleInput) (int, error) {
	if err := scope.Validate(); err != nil {
		return 0, err
	}
	if err := s.checkTarget(ctx, scope); err != nil {
		return 0, err
	}

	inserted := 0
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("organization_id = ? AND item_id = ? AND template_id = ?",
				scope.OrganizationID, scope.ItemID, scope.TemplateID).
			Delete(&models.CompatibilityRule{}).Error; err != nil {
			return err
		}

		seen := make(map[string]bool, len(inputs))
		for _, in := range inputs {
			manufacturer := strings.TrimSpace(in.Manufacturer)
			if manufacturer == "" {
				continue
			}

			matchType := in.MatchType
			if matchType == "" {
				matchType = models.MatchExact
			}
			if !ValidMatchType(matchType) {
				return &ValidationError{Field: "match_type", Reason: "must be one of any, exact, prefix, wildcard"}
			}

			verification := in.Verification
			if verification == "" {
				verification = models.VerificationUnverified
			}

			modelNorm := ""
			if in.Model != nil {
				modelNorm = Normalize(*in.Model)
			}

			// First occurrence of a normalized pair wins
			key := Normalize(manufacturer) + "\x00" + modelNorm
			if seen[key] {
				continue
			}
			seen[key] = true

			rule := models.CompatibilityRule{
				OrganizationID:   scope.OrganizationID,
				ItemID:           scope.ItemID,
				TemplateID:       scope.TemplateID,
				Manufacturer:     manufacturer,
				ManufacturerNorm: Normalize(manufacturer),
				Model:            in.Model,
				ModelNorm:        modelNorm,
				MatchType:        matchType,
				Verification:     verification,
				Notes:            in.Notes,
			}
			if err := tx.Create(&rule).Error; err != nil {
				return err
			}
			inserted++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

// checkTarget verifies the scope's target exists and is writable from
// this organization. A missing sole scope of a write is a hard error.
func (s *RuleStore) checkTarget(ctx context.Context, scope RuleScope) error {
	if scope.ItemID != "" {
		var count int64
		if err := s.db.WithContext(ctx).Model(&models.InventoryItem{}).
			Where("id = ? AND organization_id = ?", scope.ItemID, scope.OrganizationID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return &NotFoundError{Kind: "inventory item", ID: scope.ItemID}
		}
		return nil
	}

	// Templates may be global (readable by all orgs, mutable by none);
	// the rule overlay itself stays org-scoped either way.
	var tmpl models.PMTemplate
	err := s.db.WithContext(ctx).
		Where("id = ? AND (organization_id IS NULL OR organization_id = ?)",
			scope.TemplateID, scope.OrganizationID).
		First(&tmpl).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &NotFoundError{Kind: "pm template", ID: scope.TemplateID}
	}
	return err
}
