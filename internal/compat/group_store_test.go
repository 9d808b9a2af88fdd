package compat

import (
	"context"
	"testing"

	"github.com/fleetgrid/partcompat/internal/models"
)

func TestCreateAndVerifyGroup(t *testing.T) {
	db := newTestDB(t)
	org := newTestOrg(t, db, "Fleet Co")
	store := NewGroupStore(db)
	userID := randomID()

	group, err := store.CreateGroup(context.Background(), org.ID, userID, GroupInput{
		Name:  "Engine oil filter",
		Notes: "cross-referenced from WIX catalog",
	})
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	if group.Status != models.VerificationUnverified {
		t.Errorf("New group should start unverified, got %q", group.Status)
	}
	if group.CreatedBy != userID {
		t.Errorf("CreatedBy not recorded: %q", group.CreatedBy)
	}

	verifierID := randomID()
	verified, err := store.VerifyGroup(context.Background(), org.ID, group.ID, verifierID)
	if err != nil {
		t.Fatalf("VerifyGroup failed: %v", err)
	}
	if verified.Status != models.VerificationVerified {
		t.Errorf("Expected verified status, got %q", verified.Status)
	}
	if verified.VerifiedBy == nil || *verified.VerifiedBy != verifierID {
		t.Errorf("VerifiedBy not recorded: %v", verified.VerifiedBy)
	}
	if verified.VerifiedAt == nil {
		t.Error("VerifiedAt not recorded")
	}

	deprecated, err := store.DeprecateGroup(context.Background(), org.ID, group.ID)
	if err != nil {
		t.Fatalf("DeprecateGroup failed: %v", err)
	}
	if deprecated.Status != models.VerificationDeprecated {
		t.Errorf("Expected deprecated status, got %q", deprecated.Status)
	}
}

func TestCreateGroupValidation(t *testing.T) {
	db := newTestDB(t)
	org := newTestOrg(t, db, "Fleet Co")
	store := NewGroupStore(db)

	if _, err := store.CreateGroup(context.Background(), org.ID, randomID(), GroupInput{Name: "  "}); !IsValidation(err) {
		t.Errorf("Expected validation error for blank name, got %v", err)
	}
	if _, err := store.CreateGroup(context.Background(), "nope", randomID(), GroupInput{Name: "x"}); !IsValidation(err) {
		t.Errorf("Expected validation error for bad org ID, got %v", err)
	}
}

func TestVerifyGroupWrongOrg(t *testing.T) {
	db := newTestDB(t)
	org := newTestOrg(t, db, "Fleet Co")
	other := newTestOrg(t, db, "Other Co")
	store := NewGroupStore(db)

	group, err := store.CreateGroup(context.Background(), org.ID, randomID(), GroupInput{Name: "Filters"})
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	if _, err := store.VerifyGroup(context.Background(), other.ID, group.ID, randomID()); !IsNotFound(err) {
		t.Errorf("Group must be invisible to another org, got %v", err)
	}
}

func TestReplaceMembers(t *testing.T) {
	db := newTestDB(t)
	org := newTestOrg(t, db, "Fleet Co")
	store := NewGroupStore(db)

	item := newTestItem(t, db, org.ID, "WIX 57090 Filter", "WIX-57090", 4, floatPtr(12))
	oem := newTestIdentifier(t, db, org.ID, models.IdentifierOEM, "CAT-1R-0750", "Caterpillar", nil)

	group, err := store.CreateGroup(context.Background(), org.ID, randomID(), GroupInput{Name: "Oil filters"})
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	n, err := store.ReplaceMembers(context.Background(), org.ID, group.ID, []MemberInput{
		{IdentifierID: &oem.ID, IsPrimary: true},
		{ItemID: &item.ID},
		{IdentifierID: &oem.ID}, // duplicate, first wins
	})
	if err != nil {
		t.Fatalf("ReplaceMembers failed: %v", err)
	}
	if n != 2 {
		t.Fatalf("Expected 2 members after dedup, got %d", n)
	}

	var members []models.AlternateGroupMember
	if err := db.Where("group_id = ?", group.ID).Find(&members).Error; err != nil {
		t.Fatalf("Failed to load members: %v", err)
	}
	primaries := 0
	for _, m := range members {
		if m.IsPrimary {
			primaries++
		}
	}
	if primaries != 1 {
		t.Errorf("Expected exactly 1 primary member, got %d", primaries)
	}

	// Full replace drops the old set
	n, err = store.ReplaceMembers(context.Background(), org.ID, group.ID, []MemberInput{
		{ItemID: &item.ID, IsPrimary: true},
	})
	if err != nil {
		t.Fatalf("Second ReplaceMembers failed: %v", err)
	}
	if n != 1 {
		t.Errorf("Expected 1 member after replace, got %d", n)
	}
}

func TestReplaceMembersValidation(t *testing.T) {
	db := newTestDB(t)
	org := newTestOrg(t, db, "Fleet Co")
	other := newTestOrg(t, db, "Other Co")
	store := NewGroupStore(db)

	group, err := store.CreateGroup(context.Background(), org.ID, randomID(), GroupInput{Name: "Filters"})
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	// Neither reference set
	if _, err := store.ReplaceMembers(context.Background(), org.ID, group.ID, []MemberInput{{}}); !IsValidation(err) {
		t.Errorf("Expected validation error for empty member, got %v", err)
	}

	// Item from another org
	foreign := newTestItem(t, db, other.ID, "Foreign", "F-1", 1, nil)
	if _, err := store.ReplaceMembers(context.Background(), org.ID, group.ID, []MemberInput{
		{ItemID: &foreign.ID},
	}); !IsNotFound(err) {
		t.Errorf("Expected not-found for cross-org item, got %v", err)
	}
}

func TestRegisterIdentifier(t *testing.T) {
	db := newTestDB(t)
	org := newTestOrg(t, db, "Fleet Co")
	store := NewGroupStore(db)
	item := newTestItem(t, db, org.ID, "Oil Filter", "FIL-100", 2, nil)

	ident, err := store.RegisterIdentifier(context.Background(), org.ID, IdentifierInput{
		IdentifierType: models.IdentifierOEM,
		Value:          " CAT-1R-0750 ",
		Manufacturer:   "Caterpillar",
		ItemID:         &item.ID,
	})
	if err != nil {
		t.Fatalf("RegisterIdentifier failed: %v", err)
	}
	if ident.ValueNorm != "cat-1r-0750" {
		t.Errorf("Value not normalized: %q", ident.ValueNorm)
	}

	// Same normalized value and type conflicts
	_, err = store.RegisterIdentifier(context.Background(), org.ID, IdentifierInput{
		IdentifierType: models.IdentifierOEM,
		Value:          "cat-1r-0750",
	})
	if !IsConflict(err) {
		t.Errorf("Expected conflict for duplicate identifier, got %v", err)
	}

	// Same value under a different type is fine
	if _, err := store.RegisterIdentifier(context.Background(), org.ID, IdentifierInput{
		IdentifierType: models.IdentifierCrossRef,
		Value:          "CAT-1R-0750",
	}); err != nil {
		t.Errorf("Different identifier type should not conflict: %v", err)
	}

	// Unknown type rejected
	if _, err := store.RegisterIdentifier(context.Background(), org.ID, IdentifierInput{
		IdentifierType: "serial",
		Value:          "X",
	}); !IsValidation(err) {
		t.Errorf("Expected validation error for unknown type, got %v", err)
	}
}
