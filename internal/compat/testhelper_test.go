package compat

import (
	"testing"

	"github.com/fleetgrid/partcompat/internal/models"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a throwaway in-memory database with the full schema
// migrated, mirroring what the server runs at boot.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.UserAuth{},
		&models.Organization{},
		&models.OrgMembership{},
		&models.InventoryItem{},
		&models.Equipment{},
		&models.EquipmentPartLink{},
		&models.PMTemplate{},
		&models.CompatibilityRule{},
		&models.PartIdentifier{},
		&models.AlternateGroup{},
		&models.AlternateGroupMember{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test schema: %v", err)
	}
	return db
}

func newTestOrg(t *testing.T, db *gorm.DB, name string) models.Organization {
	t.Helper()
	org := models.Organization{Name: name}
	if err := db.Create(&org).Error; err != nil {
		t.Fatalf("Failed to create org %q: %v", name, err)
	}
	return org
}

func newTestItem(t *testing.T, db *gorm.DB, orgID, name, sku string, qty int, cost *float64) models.InventoryItem {
	t.Helper()
	item := models.InventoryItem{
		OrganizationID:  orgID,
		Name:            name,
		SKU:             sku,
		SKUNorm:         Normalize(sku),
		QuantityOnHand:  qty,
		DefaultUnitCost: cost,
	}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("Failed to create item %q: %v", name, err)
	}
	return item
}

func newTestEquipment(t *testing.T, db *gorm.DB, orgID, name, manufacturer, model string) models.Equipment {
	t.Helper()
	eq := models.Equipment{
		OrganizationID:   orgID,
		Name:             name,
		Manufacturer:     manufacturer,
		ManufacturerNorm: Normalize(manufacturer),
		Model:            model,
		ModelNorm:        Normalize(model),
		Status:           "active",
	}
	if err := db.Create(&eq).Error; err != nil {
		t.Fatalf("Failed to create equipment %q: %v", name, err)
	}
	return eq
}

func newTestIdentifier(t *testing.T, db *gorm.DB, orgID, identType, value, manufacturer string, itemID *string) models.PartIdentifier {
	t.Helper()
	ident := models.PartIdentifier{
		OrganizationID: orgID,
		IdentifierType: identType,
		Value:          value,
		ValueNorm:      Normalize(value),
		Manufacturer:   manufacturer,
		ItemID:         itemID,
	}
	if err := db.Create(&ident).Error; err != nil {
		t.Fatalf("Failed to create identifier %q: %v", value, err)
	}
	return ident
}

func floatPtr(v float64) *float64 { return &v }
func strPtr(v string) *string     { return &v }

func randomID() string { return uuid.NewString() }
