package compat

import (
	"context"
	"testing"

	"github.com/fleetgrid/partcompat/internal/models"
	"gorm.io/gorm"
)

// oilFilterFixture builds the canonical cross-reference scenario:
// an OEM filter number grouped with two aftermarket equivalents, one
// of which is stocked.
type oilFilterFixture struct {
	org      models.Organization
	group    *models.AlternateGroup
	oem      models.PartIdentifier
	wixItem  models.InventoryItem
	napaItem models.InventoryItem
}

func buildOilFilterFixture(t *testing.T, db *gorm.DB) oilFilterFixture {
	t.Helper()
	org := newTestOrg(t, db, "Fleet Co")
	store := NewGroupStore(db)

	wix := newTestItem(t, db, org.ID, "WIX 57090 Oil Filter", "WIX-57090", 4, floatPtr(12))
	napa := newTestItem(t, db, org.ID, "NAPA 7090 Oil Filter", "NAPA-7090", 0, floatPtr(9))

	oem := newTestIdentifier(t, db, org.ID, models.IdentifierOEM, "CAT-1R-0750", "Caterpillar", nil)
	wixIdent := newTestIdentifier(t, db, org.ID, models.IdentifierAftermarket, "WIX 57090", "WIX", &wix.ID)
	napaIdent := newTestIdentifier(t, db, org.ID, models.IdentifierAftermarket, "NAPA 7090", "NAPA", &napa.ID)

	group, err := store.CreateGroup(context.Background(), org.ID, randomID(), GroupInput{Name: "Engine oil filter"})
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	_, err = store.ReplaceMembers(context.Background(), org.ID, group.ID, []MemberInput{
		{IdentifierID: &oem.ID, IsPrimary: true},
		{IdentifierID: &wixIdent.ID},
		{IdentifierID: &napaIdent.ID},
	})
	if err != nil {
		t.Fatalf("ReplaceMembers failed: %v", err)
	}
	return oilFilterFixture{org: org, group: group, oem: oem, wixItem: wix, napaItem: napa}
}

func TestFindAlternatesByOEMNumber(t *testing.T) {
	db := newTestDB(t)
	fx := buildOilFilterFixture(t, db)
	resolver := NewResolver(db)

	rows, err := resolver.FindAlternates(context.Background(), fx.org.ID, " cat-1r-0750 ", false)
	if err != nil {
		t.Fatalf("FindAlternates failed: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("Expected the full 3-member group, got %d rows", len(rows))
	}

	// Primary OEM row first, then the in-stock $12 WIX before the
	// out-of-stock $9 NAPA
	if rows[0].Value != "CAT-1R-0750" || !rows[0].IsPrimary {
		t.Errorf("Expected the primary OEM row first, got %+v", rows[0])
	}
	if rows[1].Value != "WIX 57090" {
		t.Errorf("Expected the in-stock WIX second, got %q", rows[1].Value)
	}
	if rows[2].Value != "NAPA 7090" {
		t.Errorf("Expected the out-of-stock NAPA last, got %q", rows[2].Value)
	}

	if !rows[0].IsMatchingInput {
		t.Error("The searched OEM row must be flagged is_matching_input")
	}
	if rows[1].IsMatchingInput || rows[2].IsMatchingInput {
		t.Error("Only the searched row should be flagged is_matching_input")
	}
	if !rows[1].IsInStock || rows[1].QuantityOnHand != 4 {
		t.Errorf("WIX row should carry stock metadata, got %+v", rows[1])
	}
}

func TestFindAlternatesPrefix(t *testing.T) {
	db := newTestDB(t)
	fx := buildOilFilterFixture(t, db)
	resolver := NewResolver(db)

	// Exact mode misses a partial number
	rows, err := resolver.FindAlternates(context.Background(), fx.org.ID, "cat-1r", false)
	if err != nil {
		t.Fatalf("FindAlternates failed: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("Exact search on a partial number should find nothing, got %d rows", len(rows))
	}

	// Prefix mode expands it to the whole group
	rows, err = resolver.FindAlternates(context.Background(), fx.org.ID, "cat-1r", true)
	if err != nil {
		t.Fatalf("FindAlternates (prefix) failed: %v", err)
	}
	if len(rows) != 3 {
		t.Errorf("Prefix search should resolve the full group, got %d rows", len(rows))
	}
}

func TestFindAlternatesBySKU(t *testing.T) {
	db := newTestDB(t)
	fx := buildOilFilterFixture(t, db)
	resolver := NewResolver(db)

	// Searching a stocked member's SKU walks back to the whole group
	rows, err := resolver.FindAlternates(context.Background(), fx.org.ID, "WIX-57090", false)
	if err != nil {
		t.Fatalf("FindAlternates failed: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("SKU search should resolve the full group, got %d rows", len(rows))
	}
	for _, row := range rows {
		matching := row.ItemID != nil && *row.ItemID == fx.wixItem.ID
		if row.IsMatchingInput != matching {
			t.Errorf("is_matching_input wrong for %q: got %v", row.Value, row.IsMatchingInput)
		}
	}
}

func TestFindAlternatesUngroupedItem(t *testing.T) {
	db := newTestDB(t)
	org := newTestOrg(t, db, "Fleet Co")
	resolver := NewResolver(db)

	loose := newTestItem(t, db, org.ID, "Loose Bolt", "BOLT-9", 50, floatPtr(0.4))

	rows, err := resolver.FindAlternates(context.Background(), org.ID, "bolt-9", false)
	if err != nil {
		t.Fatalf("FindAlternates failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("Expected 1 synthetic row, got %d", len(rows))
	}
	row := rows[0]
	if row.GroupID != "" {
		t.Errorf("Synthetic row must have no group, got %q", row.GroupID)
	}
	if row.GroupStatus != models.VerificationUnverified {
		t.Errorf("Synthetic row status should be unverified, got %q", row.GroupStatus)
	}
	if !row.IsPrimary || !row.IsMatchingInput {
		t.Errorf("Synthetic row should be primary and matching, got %+v", row)
	}
	if row.ItemID == nil || *row.ItemID != loose.ID {
		t.Errorf("Synthetic row should reference the item, got %v", row.ItemID)
	}
}

func TestFindAlternatesGroupedItemNotDuplicated(t *testing.T) {
	db := newTestDB(t)
	fx := buildOilFilterFixture(t, db)
	resolver := NewResolver(db)

	// The WIX item is reachable through the group, so no synthetic
	// row may be added on top of the group rows.
	rows, err := resolver.FindAlternates(context.Background(), fx.org.ID, "wix-57090", false)
	if err != nil {
		t.Fatalf("FindAlternates failed: %v", err)
	}
	if len(rows) != 3 {
		t.Errorf("Grouped item must not produce an extra synthetic row, got %d rows", len(rows))
	}
}

func TestFindAlternatesEmptyTerm(t *testing.T) {
	db := newTestDB(t)
	org := newTestOrg(t, db, "Fleet Co")
	resolver := NewResolver(db)

	rows, err := resolver.FindAlternates(context.Background(), org.ID, "   ", false)
	if err != nil {
		t.Fatalf("FindAlternates failed: %v", err)
	}
	if rows == nil || len(rows) != 0 {
		t.Errorf("Blank term should yield an empty, non-nil slice, got %#v", rows)
	}
}

func TestFindAlternatesTenantIsolation(t *testing.T) {
	db := newTestDB(t)
	fx := buildOilFilterFixture(t, db)
	resolver := NewResolver(db)

	other := newTestOrg(t, db, "Other Co")
	rows, err := resolver.FindAlternates(context.Background(), other.ID, "cat-1r-0750", false)
	if err != nil {
		t.Fatalf("FindAlternates failed: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("Another org must see nothing, got %d rows", len(rows))
	}
	_ = fx
}

func TestFindAlternatesForItem(t *testing.T) {
	db := newTestDB(t)
	fx := buildOilFilterFixture(t, db)
	resolver := NewResolver(db)

	rows, err := resolver.FindAlternatesForItem(context.Background(), fx.org.ID, fx.wixItem.ID)
	if err != nil {
		t.Fatalf("FindAlternatesForItem failed: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("Expected the full group, got %d rows", len(rows))
	}
	sourceRows := 0
	for _, row := range rows {
		if row.IsSourceItem {
			sourceRows++
			if row.ItemID == nil || *row.ItemID != fx.wixItem.ID {
				t.Errorf("IsSourceItem on the wrong row: %+v", row)
			}
		}
	}
	if sourceRows != 1 {
		t.Errorf("Exactly one row should be the source item, got %d", sourceRows)
	}
}

func TestFindAlternatesForItemUngrouped(t *testing.T) {
	db := newTestDB(t)
	org := newTestOrg(t, db, "Fleet Co")
	resolver := NewResolver(db)
	item := newTestItem(t, db, org.ID, "Lone Gasket", "GK-77", 2, nil)

	rows, err := resolver.FindAlternatesForItem(context.Background(), org.ID, item.ID)
	if err != nil {
		t.Fatalf("FindAlternatesForItem failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("Ungrouped item should answer with itself, got %d rows", len(rows))
	}
	if !rows[0].IsSourceItem || rows[0].GroupID != "" {
		t.Errorf("Expected a synthetic source row, got %+v", rows[0])
	}
}

func TestFindAlternatesForItemNotFound(t *testing.T) {
	db := newTestDB(t)
	org := newTestOrg(t, db, "Fleet Co")
	other := newTestOrg(t, db, "Other Co")
	resolver := NewResolver(db)

	if _, err := resolver.FindAlternatesForItem(context.Background(), org.ID, randomID()); !IsNotFound(err) {
		t.Errorf("Expected not-found for unknown item, got %v", err)
	}

	foreign := newTestItem(t, db, other.ID, "Foreign", "F-2", 1, nil)
	if _, err := resolver.FindAlternatesForItem(context.Background(), org.ID, foreign.ID); !IsNotFound(err) {
		t.Errorf("Expected not-found for cross-org item, got %v", err)
	}
}
