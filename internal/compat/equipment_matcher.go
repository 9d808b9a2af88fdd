package compat

import (
	"context"
	"fmt"

	"github.com/fleetgrid/partcompat/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Resolver answers the two read queries of the compatibility engine:
// equipment-to-parts and part-number-to-alternates. It is stateless
// per call; concurrent use needs no locking.
type Resolver struct {
	db *gorm.DB
}

// NewResolver creates a resolver
func NewResolver(db *gorm.DB) *Resolver {
	return &Resolver{db: db}
}

// MatchEquipment returns the ranked inventory items compatible with
// the given equipment. Rule-based matches and direct equipment-item
// links are resolved independently and merged; the direct link wins
// the match-type tag when both apply. Equipment outside the
// organization is excluded silently, and an empty ID list yields an
// empty result, not an error.
func (r *Resolver) MatchEquipment(ctx context.Context, orgID string, equipmentIDs []string) ([]RankedPart, error) {
	if _, err := uuid.Parse(orgID); err != nil {
		return nil, &ValidationError{Field: "organization_id", Reason: "must be a valid UUID"}
	}
	if len(equipmentIDs) == 0 {
		return []RankedPart{}, nil
	}
	for _, id := range equipmentIDs {
		if _, err := uuid.Parse(id); err != nil {
			return nil, &ValidationError{Field: "equipment_ids", Reason: fmt.Sprintf("%q is not a valid UUID", id)}
		}
	}

	// Tenant isolation happens here, not in the caller: foreign IDs
	// simply produce no rows.
	var equipment []models.Equipment
	if err := r.db.WithContext(ctx).
		Where("organization_id = ? AND id IN ?", orgID, equipmentIDs).
		Find(&equipment).Error; err != nil {
		return nil, err
	}
	if len(equipment) == 0 {
		return []RankedPart{}, nil
	}

	ruleParts, err := r.ruleMatches(ctx, orgID, equipment)
	if err != nil {
		return nil, err
	}
	directParts, err := r.directMatches(ctx, orgID, equipment)
	if err != nil {
		return nil, err
	}

	merged := mergeParts(ruleParts, directParts)
	if err := r.attachItems(ctx, orgID, merged); err != nil {
		return nil, err
	}

	// attachItems drops candidates whose item vanished or moved org
	parts := make([]RankedPart, 0, len(merged))
	for _, p := range merged {
		if p != nil {
			parts = append(parts, *p)
		}
	}

	RankParts(parts)
	return parts, nil
}

// ruleMatches evaluates every item-bound rule in the organization
// against each equipment's normalized manufacturer/model.
func (r *Resolver) ruleMatches(ctx context.Context, orgID string, equipment []models.Equipment) ([]*RankedPart, error) {
	var rules []models.CompatibilityRule
	if err := r.db.WithContext(ctx).
		Where("organization_id = ? AND item_id <> ''", orgID).
		Find(&rules).Error; err != nil {
		return nil, err
	}

	var parts []*RankedPart
	for _, eq := range equipment {
		for _, rule := range rules {
			if rule.Verification == models.VerificationDeprecated {
				continue
			}
			if !RuleMatches(rule, eq.ManufacturerNorm, eq.ModelNorm) {
				continue
			}
			label := ruleLabel(rule)
			parts = append(parts, &RankedPart{
				EquipmentID: eq.ID,
				Item:        models.InventoryItem{ID: rule.ItemID},
				MatchType:   MatchSourceRule,
				RuleID:      rule.ID,
				RuleLabel:   &label,
			})
		}
	}
	return parts, nil
}

// directMatches loads the explicit equipment-item link table
func (r *Resolver) directMatches(ctx context.Context, orgID string, equipment []models.Equipment) ([]*RankedPart, error) {
	ids := make([]string, len(equipment))
	for i, eq := range equipment {
		ids[i] = eq.ID
	}

	var links []models.EquipmentPartLink
	if err := r.db.WithContext(ctx).
		Where("organization_id = ? AND equipment_id IN ?", orgID, ids).
		Find(&links).Error; err != nil {
		return nil, err
	}

	parts := make([]*RankedPart, 0, len(links))
	for _, link := range links {
		parts = append(parts, &RankedPart{
			EquipmentID: link.EquipmentID,
			Item:        models.InventoryItem{ID: link.ItemID},
			MatchType:   MatchSourceDirect,
		})
	}
	return parts, nil
}

// mergeParts unions the two match sources, deduplicating by
// (equipment, item). A direct link wins the tag; the rule contributes
// its label so grouping survives the merge.
func mergeParts(ruleParts, directParts []*RankedPart) []*RankedPart {
	byKey := make(map[string]*RankedPart, len(ruleParts)+len(directParts))
	var merged []*RankedPart

	add := func(p *RankedPart) {
		key := p.EquipmentID + "/" + p.Item.ID
		existing, ok := byKey[key]
		if !ok {
			byKey[key] = p
			merged = append(merged, p)
			return
		}
		if p.MatchType == MatchSourceDirect {
			existing.MatchType = MatchSourceDirect
		}
		if existing.RuleID == "" {
			existing.RuleID = p.RuleID
			existing.RuleLabel = p.RuleLabel
		}
	}

	for _, p := range ruleParts {
		add(p)
	}
	for _, p := range directParts {
		add(p)
	}
	return merged
}

// attachItems loads inventory metadata for each candidate, nil-ing out
// entries whose item no longer exists in the organization.
func (r *Resolver) attachItems(ctx context.Context, orgID string, parts []*RankedPart) error {
	if len(parts) == 0 {
		return nil
	}

	idSet := make(map[string]bool, len(parts))
	ids := make([]string, 0, len(parts))
	for _, p := range parts {
		if !idSet[p.Item.ID] {
			idSet[p.Item.ID] = true
			ids = append(ids, p.Item.ID)
		}
	}

	var items []models.InventoryItem
	if err := r.db.WithContext(ctx).
		Where("organization_id = ? AND id IN ?", orgID, ids).
		Find(&items).Error; err != nil {
		return err
	}
	byID := make(map[string]models.InventoryItem, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}

	for i, p := range parts {
		item, ok := byID[p.Item.ID]
		if !ok {
			parts[i] = nil
			continue
		}
		p.Item = item
		p.IsInStock = item.IsInStock()
		p.IsLowStock = item.IsLowStock()
	}
	return nil
}

func ruleLabel(rule models.CompatibilityRule) string {
	if rule.ModelNorm == "" {
		return rule.ManufacturerNorm
	}
	return rule.ManufacturerNorm + " " + rule.ModelNorm
}
