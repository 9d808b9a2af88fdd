package compat

import "github.com/google/uuid"

// RuleScope identifies the exact owner of a rule set: one organization
// plus either an inventory item or a PM template. Rules are always
// organization-scoped, even when they overlay a global template.
type RuleScope struct {
	OrganizationID string
	ItemID         string
	TemplateID     string
}

// ItemScope builds a scope for rules bound to an inventory item
func ItemScope(orgID, itemID string) RuleScope {
	return RuleScope{OrganizationID: orgID, ItemID: itemID}
}

// TemplateScope builds a scope for rules bound to a PM template
func TemplateScope(orgID, templateID string) RuleScope {
	return RuleScope{OrganizationID: orgID, TemplateID: templateID}
}

// Validate checks the scope shape: a valid organization ID and exactly
// one target, each a well-formed UUID.
func (s RuleScope) Validate() error {
	if _, err := uuid.Parse(s.OrganizationID); err != nil {
		return &ValidationError{Field: "organization_id", Reason: "must be a valid UUID"}
	}
	if (s.ItemID == "") == (s.TemplateID == "") {
		return &ValidationError{Field: "scope", Reason: "exactly one of item_id or template_id is required"}
	}
	if s.ItemID != "" {
		if _, err := uuid.Parse(s.ItemID); err != nil {
			return &ValidationError{Field: "item_id", Reason: "must be a valid UUID"}
		}
	}
	if s.TemplateID != "" {
		if _, err := uuid.Parse(s.TemplateID); err != nil {
			return &ValidationError{Field: "template_id", Reason: "must be a valid UUID"}
		}
	}
	return nil
}
