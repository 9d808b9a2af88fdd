package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Match types for compatibility rules
const (
	MatchAny      = "any"
	MatchExact    = "exact"
	MatchPrefix   = "prefix"
	MatchWildcard = "wildcard"
)

// Verification states shared by rules and alternate groups
const (
	VerificationUnverified = "unverified"
	VerificationVerified   = "verified"
	VerificationDeprecated = "deprecated"
)

// CompatibilityRule binds an inventory item or a PM template to a
// manufacturer/model predicate. Exactly one of ItemID/TemplateID is
// set; the empty string means "not this target kind" so the composite
// unique index holds on every backend. ModelNorm == "" means the rule
// has no model constraint.
type CompatibilityRule struct {
	ID               string  `gorm:"primaryKey;size:36" json:"id"`
	OrganizationID   string  `gorm:"size:36;not null;uniqueIndex:idx_rules_scope_pred" json:"organizationId"`
	ItemID           string  `gorm:"size:36;default:'';uniqueIndex:idx_rules_scope_pred;index" json:"itemId,omitempty"`
	TemplateID       string  `gorm:"size:36;default:'';uniqueIndex:idx_rules_scope_pred;index" json:"templateId,omitempty"`
	Manufacturer     string  `gorm:"not null" json:"manufacturer"`
	ManufacturerNorm string  `gorm:"size:255;not null;uniqueIndex:idx_rules_scope_pred" json:"-"`
	Model            *string `json:"model,omitempty"`
	ModelNorm        string  `gorm:"size:255;default:'';uniqueIndex:idx_rules_scope_pred" json:"-"`
	MatchType        string  `gorm:"size:16;not null;default:'exact'" json:"matchType"`
	Verification     string  `gorm:"size:16;not null;default:'unverified'" json:"verification"`
	Notes            string  `json:"notes,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (CompatibilityRule) TableName() string {
	return "compatibility_rules"
}

func (r *CompatibilityRule) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
