package compat

import (
	"context"
	"errors"
	"strings"

	"github.com/fleetgrid/partcompat/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FindAlternates resolves a searched part number or SKU to its ranked
// interchangeable alternatives. With prefix=false the term must equal
// a normalized identifier/SKU/external ID; with prefix=true a leading
// match is enough. An empty term (after normalization) yields an empty
// result, not an error. No row ever crosses the organization boundary.
func (r *Resolver) FindAlternates(ctx context.Context, orgID, searchTerm string, prefix bool) ([]RankedAlternate, error) {
	if _, err := uuid.Parse(orgID); err != nil {
		return nil, &ValidationError{Field: "organization_id", Reason: "must be a valid UUID"}
	}
	norm := Normalize(searchTerm)
	if norm == "" {
		return []RankedAlternate{}, nil
	}

	// 1. Identifiers matching the term
	identQuery := r.db.WithContext(ctx).Where("organization_id = ?", orgID)
	if prefix {
		identQuery = identQuery.Where("value_norm LIKE ?", norm+"%")
	} else {
		identQuery = identQuery.Where("value_norm = ?", norm)
	}
	var matchedIdentifiers []models.PartIdentifier
	if err := identQuery.Find(&matchedIdentifiers).Error; err != nil {
		return nil, err
	}

	// 2. Items matching the term by SKU or external ID
	itemQuery := r.db.WithContext(ctx).Where("organization_id = ?", orgID)
	if prefix {
		itemQuery = itemQuery.Where("sku_norm LIKE ? OR external_id_norm LIKE ?", norm+"%", norm+"%")
	} else {
		itemQuery = itemQuery.Where("sku_norm = ? OR external_id_norm = ?", norm, norm)
	}
	var matchedItems []models.InventoryItem
	if err := itemQuery.Find(&matchedItems).Error; err != nil {
		return nil, err
	}

	matchedIdentIDs := make(map[string]bool, len(matchedIdentifiers))
	identIDs := make([]string, 0, len(matchedIdentifiers))
	for _, ident := range matchedIdentifiers {
		matchedIdentIDs[ident.ID] = true
		identIDs = append(identIDs, ident.ID)
	}
	matchedItemIDs := make(map[string]bool, len(matchedItems))
	itemIDs := make([]string, 0, len(matchedItems))
	for _, item := range matchedItems {
		matchedItemIDs[item.ID] = true
		itemIDs = append(itemIDs, item.ID)
	}

	// A matched item can sit in a group indirectly, through an
	// identifier linked to it; seed the expansion with those too.
	seedIdentIDs := identIDs
	if len(itemIDs) > 0 {
		var linked []models.PartIdentifier
		if err := r.db.WithContext(ctx).
			Where("organization_id = ? AND item_id IN ?", orgID, itemIDs).
			Find(&linked).Error; err != nil {
			return nil, err
		}
		for _, ident := range linked {
			if !matchedIdentIDs[ident.ID] {
				seedIdentIDs = append(seedIdentIDs, ident.ID)
			}
		}
	}

	// 3. Expand matches to their containing groups
	groupIDs, err := r.groupsForRefs(ctx, orgID, seedIdentIDs, itemIDs)
	if err != nil {
		return nil, err
	}
	rows, err := r.expandGroups(ctx, orgID, groupIDs)
	if err != nil {
		return nil, err
	}

	matchesTerm := func(v string) bool {
		nv := Normalize(v)
		if prefix {
			return strings.HasPrefix(nv, norm)
		}
		return nv == norm
	}
	for i := range rows {
		row := &rows[i]
		row.IsMatchingInput = matchesTerm(row.Value) ||
			(row.IdentifierID != nil && matchedIdentIDs[*row.IdentifierID]) ||
			(row.ItemID != nil && matchedItemIDs[*row.ItemID])
	}

	// 4. Ungrouped inventory hits become synthetic single-member rows
	direct, err := r.directItemMatches(ctx, orgID, norm, prefix)
	if err != nil {
		return nil, err
	}
	rows = append(rows, direct...)

	RankAlternates(rows)
	return rows, nil
}

// FindAlternatesForItem runs the same group expansion seeded from an
// inventory item's own identifiers and memberships. Rows belonging to
// the seed item are marked IsSourceItem.
func (r *Resolver) FindAlternatesForItem(ctx context.Context, orgID, itemID string) ([]RankedAlternate, error) {
	if _, err := uuid.Parse(orgID); err != nil {
		return nil, &ValidationError{Field: "organization_id", Reason: "must be a valid UUID"}
	}
	if _, err := uuid.Parse(itemID); err != nil {
		return nil, &ValidationError{Field: "item_id", Reason: "must be a valid UUID"}
	}

	var item models.InventoryItem
	err := r.db.WithContext(ctx).
		Where("id = ? AND organization_id = ?", itemID, orgID).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Kind: "inventory item", ID: itemID}
	}
	if err != nil {
		return nil, err
	}

	var seedIdentifiers []models.PartIdentifier
	if err := r.db.WithContext(ctx).
		Where("organization_id = ? AND item_id = ?", orgID, itemID).
		Find(&seedIdentifiers).Error; err != nil {
		return nil, err
	}
	identIDs := make([]string, len(seedIdentifiers))
	for i, ident := range seedIdentifiers {
		identIDs[i] = ident.ID
	}

	groupIDs, err := r.groupsForRefs(ctx, orgID, identIDs, []string{itemID})
	if err != nil {
		return nil, err
	}

	rows, err := r.expandGroups(ctx, orgID, groupIDs)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		if rows[i].ItemID != nil && *rows[i].ItemID == itemID {
			rows[i].IsSourceItem = true
		}
	}

	// An ungrouped item still answers with itself, as a synthetic row
	if len(rows) == 0 {
		row := syntheticRow(item)
		row.IsSourceItem = true
		rows = append(rows, row)
	}

	RankAlternates(rows)
	return rows, nil
}

// groupsForRefs returns the distinct org-owned group IDs containing
// any of the given identifiers or items.
func (r *Resolver) groupsForRefs(ctx context.Context, orgID string, identIDs, itemIDs []string) ([]string, error) {
	if len(identIDs) == 0 && len(itemIDs) == 0 {
		return nil, nil
	}

	memberQuery := r.db.WithContext(ctx).Model(&models.AlternateGroupMember{}).
		Distinct("alternate_group_members.group_id").
		Joins("JOIN alternate_groups ON alternate_groups.id = alternate_group_members.group_id").
		Where("alternate_groups.organization_id = ? AND alternate_groups.deleted_at IS NULL", orgID)

	switch {
	case len(identIDs) > 0 && len(itemIDs) > 0:
		memberQuery = memberQuery.Where(
			"alternate_group_members.identifier_id IN ? OR alternate_group_members.item_id IN ?", identIDs, itemIDs)
	case len(identIDs) > 0:
		memberQuery = memberQuery.Where("alternate_group_members.identifier_id IN ?", identIDs)
	default:
		memberQuery = memberQuery.Where("alternate_group_members.item_id IN ?", itemIDs)
	}

	var groupIDs []string
	if err := memberQuery.Pluck("alternate_group_members.group_id", &groupIDs).Error; err != nil {
		return nil, err
	}
	return groupIDs, nil
}

// expandGroups materializes every member of every group into a row
// with its inventory metadata attached.
func (r *Resolver) expandGroups(ctx context.Context, orgID string, groupIDs []string) ([]RankedAlternate, error) {
	if len(groupIDs) == 0 {
		return []RankedAlternate{}, nil
	}

	var groups []models.AlternateGroup
	if err := r.db.WithContext(ctx).
		Where("organization_id = ? AND id IN ?", orgID, groupIDs).
		Find(&groups).Error; err != nil {
		return nil, err
	}
	groupByID := make(map[string]models.AlternateGroup, len(groups))
	ids := make([]string, 0, len(groups))
	for _, g := range groups {
		groupByID[g.ID] = g
		ids = append(ids, g.ID)
	}

	var members []models.AlternateGroupMember
	if err := r.db.WithContext(ctx).
		Where("group_id IN ?", ids).
		Find(&members).Error; err != nil {
		return nil, err
	}

	// Bulk-load the referenced identifiers and items
	identIDSet := make(map[string]bool)
	itemIDSet := make(map[string]bool)
	for _, m := range members {
		if m.IdentifierID != nil {
			identIDSet[*m.IdentifierID] = true
		}
		if m.ItemID != nil {
			itemIDSet[*m.ItemID] = true
		}
	}

	identByID := make(map[string]models.PartIdentifier)
	if len(identIDSet) > 0 {
		var idents []models.PartIdentifier
		if err := r.db.WithContext(ctx).
			Where("organization_id = ? AND id IN ?", orgID, keys(identIDSet)).
			Find(&idents).Error; err != nil {
			return nil, err
		}
		for _, ident := range idents {
			identByID[ident.ID] = ident
			if ident.ItemID != nil {
				itemIDSet[*ident.ItemID] = true
			}
		}
	}

	itemByID := make(map[string]models.InventoryItem)
	if len(itemIDSet) > 0 {
		var items []models.InventoryItem
		if err := r.db.WithContext(ctx).
			Where("organization_id = ? AND id IN ?", orgID, keys(itemIDSet)).
			Find(&items).Error; err != nil {
			return nil, err
		}
		for _, item := range items {
			itemByID[item.ID] = item
		}
	}

	rows := make([]RankedAlternate, 0, len(members))
	for _, m := range members {
		group, ok := groupByID[m.GroupID]
		if !ok {
			continue
		}
		groupName := group.Name

		row := RankedAlternate{
			GroupID:     group.ID,
			GroupName:   &groupName,
			GroupStatus: group.Status,
			MemberID:    m.ID,
			IsPrimary:   m.IsPrimary,
		}

		var item *models.InventoryItem
		if m.IdentifierID != nil {
			ident, ok := identByID[*m.IdentifierID]
			if !ok {
				continue
			}
			row.IdentifierID = &ident.ID
			row.IdentifierType = ident.IdentifierType
			row.Value = ident.Value
			row.Manufacturer = ident.Manufacturer
			if ident.ItemID != nil {
				if linked, ok := itemByID[*ident.ItemID]; ok {
					item = &linked
				}
			}
		}
		if m.ItemID != nil {
			if linked, ok := itemByID[*m.ItemID]; ok {
				item = &linked
			}
		}

		if item != nil {
			row.ItemID = &item.ID
			name := item.Name
			row.ItemName = &name
			row.Location = item.Location
			row.ImageURL = item.ImageURL
			row.UnitCost = item.DefaultUnitCost
			row.QuantityOnHand = item.QuantityOnHand
			row.IsInStock = item.IsInStock()
			row.IsLowStock = item.IsLowStock()
			if row.Value == "" {
				row.Value = itemDisplayValue(*item)
			}
		}
		if row.Value == "" && m.ItemID != nil {
			// Item-only member whose item vanished: nothing to show
			continue
		}

		rows = append(rows, row)
	}
	return rows, nil
}

// directItemMatches finds inventory items matching the term by SKU,
// external ID, or name that belong to no alternate group, and emits
// them as synthetic single-member results.
func (r *Resolver) directItemMatches(ctx context.Context, orgID, norm string, prefix bool) ([]RankedAlternate, error) {
	query := r.db.WithContext(ctx).Where("organization_id = ?", orgID)
	if prefix {
		query = query.Where("sku_norm LIKE ? OR external_id_norm LIKE ? OR LOWER(name) LIKE ?",
			norm+"%", norm+"%", norm+"%")
	} else {
		query = query.Where("sku_norm = ? OR external_id_norm = ? OR LOWER(name) = ?", norm, norm, norm)
	}
	var items []models.InventoryItem
	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}

	itemIDs := make([]string, len(items))
	for i, item := range items {
		itemIDs[i] = item.ID
	}

	// Items already reachable through a group (directly or via a
	// linked identifier) are excluded; the group rows cover them.
	var groupedDirect []string
	if err := r.db.WithContext(ctx).Model(&models.AlternateGroupMember{}).
		Where("item_id IN ?", itemIDs).
		Pluck("item_id", &groupedDirect).Error; err != nil {
		return nil, err
	}
	var groupedViaIdent []string
	if err := r.db.WithContext(ctx).Model(&models.PartIdentifier{}).
		Joins("JOIN alternate_group_members ON alternate_group_members.identifier_id = part_identifiers.id").
		Where("part_identifiers.item_id IN ?", itemIDs).
		Pluck("part_identifiers.item_id", &groupedViaIdent).Error; err != nil {
		return nil, err
	}
	grouped := make(map[string]bool, len(groupedDirect)+len(groupedViaIdent))
	for _, id := range groupedDirect {
		grouped[id] = true
	}
	for _, id := range groupedViaIdent {
		grouped[id] = true
	}

	var rows []RankedAlternate
	for _, item := range items {
		if grouped[item.ID] {
			continue
		}
		rows = append(rows, syntheticRow(item))
	}
	return rows, nil
}

// syntheticRow shapes an ungrouped inventory item as a one-member
// "direct match" result with a placeholder unverified status.
func syntheticRow(item models.InventoryItem) RankedAlternate {
	name := item.Name
	return RankedAlternate{
		GroupStatus:     models.VerificationUnverified,
		IsPrimary:       true,
		ItemID:          &item.ID,
		ItemName:        &name,
		Value:           itemDisplayValue(item),
		Location:        item.Location,
		ImageURL:        item.ImageURL,
		UnitCost:        item.DefaultUnitCost,
		QuantityOnHand:  item.QuantityOnHand,
		IsInStock:       item.IsInStock(),
		IsLowStock:      item.IsLowStock(),
		IsMatchingInput: true,
	}
}

func itemDisplayValue(item models.InventoryItem) string {
	if item.SKU != "" {
		return item.SKU
	}
	if item.ExternalID != "" {
		return item.ExternalID
	}
	return item.Name
}

func keys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	return out
}
