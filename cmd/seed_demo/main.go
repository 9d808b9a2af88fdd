package main

import (
	"context"
	"fmt"
	"log"

	"github.com/fleetgrid/partcompat/internal/compat"
	"github.com/fleetgrid/partcompat/internal/config"
	"github.com/fleetgrid/partcompat/internal/database"
	"github.com/fleetgrid/partcompat/internal/models"
	"github.com/fleetgrid/partcompat/internal/utils"
)

func main() {
	fmt.Println("🌱 PartCompat Demo Data Seeder")

	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	// Connect to database
	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer db.Close()

	fmt.Println("✅ Connected to database")

	// Run migrations first
	fmt.Println("🔨 Running database migrations...")
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
		log.Fatalf("❌ Migration failed: %v", err)
	}
	fmt.Println("✅ Migrations complete")

	// Refuse to double-seed
	var orgCount int64
	db.Model(&models.Organization{}).Count(&orgCount)
	if orgCount > 0 {
		fmt.Printf("⚠️  Database already has %d organizations. Clear it first? (y/N): ", orgCount)
		var answer string
		fmt.Scanln(&answer)
		if answer != "y" && answer != "Y" {
			fmt.Println("❌ Aborted. Database not modified.")
			return
		}

		fmt.Println("🗑️  Clearing existing data...")
		for _, table := range []string{
			"alternate_group_members", "alternate_groups", "part_identifiers",
			"compatibility_rules", "equipment_part_links", "equipment",
			"pm_templates", "inventory_items", "org_memberships",
			"organizations", "user_auths",
		} {
			db.Exec("DELETE FROM " + table)
		}
		fmt.Println("✅ Data cleared")
	}

	ctx := context.Background()

	// 1. Organization and users
	fmt.Println("🏢 Creating organization and users...")
	org := models.Organization{Name: "Ridgeline Quarry Fleet"}
	if err := db.Create(&org).Error; err != nil {
		log.Fatalf("❌ Failed to create organization: %v", err)
	}

	adminPass, _ := utils.HashPassword("admin123")
	admin := models.UserAuth{
		Username:     "fleet-admin",
		Email:        "admin@ridgeline.example",
		Password:     adminPass,
		Name:         "Dana Ops",
		Role:         "user",
		DefaultOrgID: &org.ID,
	}
	memberPass, _ := utils.HashPassword("member123")
	member := models.UserAuth{
		Username:     "fleet-mechanic",
		Email:        "mechanic@ridgeline.example",
		Password:     memberPass,
		Name:         "Sam Wrench",
		Role:         "user",
		DefaultOrgID: &org.ID,
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Fatalf("❌ Failed to create admin user: %v", err)
	}
	if err := db.Create(&member).Error; err != nil {
		log.Fatalf("❌ Failed to create member user: %v", err)
	}

	memberships := []models.OrgMembership{
		{UserID: admin.ID, OrganizationID: org.ID, Role: models.RoleAdmin, Status: models.MembershipActive},
		{UserID: member.ID, OrganizationID: org.ID, Role: models.RoleMember, Status: models.MembershipActive},
	}
	for i := range memberships {
		if err := db.Create(&memberships[i]).Error; err != nil {
			log.Fatalf("❌ Failed to create membership: %v", err)
		}
	}
	fmt.Println("   ✓ admin@ridgeline.example / admin123 (admin)")
	fmt.Println("   ✓ mechanic@ridgeline.example / member123 (member)")

	// 2. Equipment
	fmt.Println("🚜 Creating equipment...")
	cat320 := equipment(org.ID, "Excavator 1", "Caterpillar", "320 GC", "CAT0320GC001")
	komatsu := equipment(org.ID, "Excavator 2", "Komatsu", "PC210LC-11", "KMTPC210X002")
	for _, eq := range []*models.Equipment{&cat320, &komatsu} {
		if err := db.Create(eq).Error; err != nil {
			log.Fatalf("❌ Failed to create equipment %s: %v", eq.Name, err)
		}
		fmt.Printf("   ✓ %s (%s %s)\n", eq.Name, eq.Manufacturer, eq.Model)
	}

	// 3. Inventory
	fmt.Println("📦 Creating inventory items...")
	wixCost, napaCost, hydroCost := 12.0, 9.0, 31.5
	wix := item(org.ID, "WIX 57090 Oil Filter", "WIX-57090", 4, &wixCost, "Shelf A-3")
	napa := item(org.ID, "NAPA 7090 Oil Filter", "NAPA-7090", 0, &napaCost, "Shelf A-4")
	hydro := item(org.ID, "Donaldson Hydraulic Filter", "DON-P165332", 6, &hydroCost, "Shelf B-1")
	for _, it := range []*models.InventoryItem{&wix, &napa, &hydro} {
		if err := db.Create(it).Error; err != nil {
			log.Fatalf("❌ Failed to create item %s: %v", it.Name, err)
		}
		fmt.Printf("   ✓ %s (qty %d)\n", it.Name, it.QuantityOnHand)
	}

	// 4. Compatibility rules
	fmt.Println("🔗 Creating compatibility rules...")
	rules := compat.NewRuleStore(db.DB)
	if _, err := rules.ReplaceRules(ctx, compat.ItemScope(org.ID, wix.ID), []compat.RuleInput{
		{Manufacturer: "Caterpillar", Model: strRef("320"), MatchType: models.MatchPrefix},
	}); err != nil {
		log.Fatalf("❌ Failed to create rules for %s: %v", wix.Name, err)
	}
	if _, err := rules.ReplaceRules(ctx, compat.ItemScope(org.ID, hydro.ID), []compat.RuleInput{
		{Manufacturer: "Komatsu", Model: strRef("PC210"), MatchType: models.MatchPrefix},
		{Manufacturer: "Caterpillar", MatchType: models.MatchAny, Notes: "fits most Cat excavators"},
	}); err != nil {
		log.Fatalf("❌ Failed to create rules for %s: %v", hydro.Name, err)
	}
	fmt.Println("   ✓ Prefix and any-model rules in place")

	// 5. Identifiers and the oil-filter alternate group
	fmt.Println("🔁 Creating alternate group...")
	groups := compat.NewGroupStore(db.DB)

	oem, err := groups.RegisterIdentifier(ctx, org.ID, compat.IdentifierInput{
		IdentifierType: models.IdentifierOEM,
		Value:          "CAT-1R-0750",
		Manufacturer:   "Caterpillar",
	})
	if err != nil {
		log.Fatalf("❌ Failed to register OEM identifier: %v", err)
	}
	wixIdent, err := groups.RegisterIdentifier(ctx, org.ID, compat.IdentifierInput{
		IdentifierType: models.IdentifierAftermarket,
		Value:          "WIX 57090",
		Manufacturer:   "WIX",
		ItemID:         &wix.ID,
	})
	if err != nil {
		log.Fatalf("❌ Failed to register WIX identifier: %v", err)
	}
	napaIdent, err := groups.RegisterIdentifier(ctx, org.ID, compat.IdentifierInput{
		IdentifierType: models.IdentifierAftermarket,
		Value:          "NAPA 7090",
		Manufacturer:   "NAPA",
		ItemID:         &napa.ID,
	})
	if err != nil {
		log.Fatalf("❌ Failed to register NAPA identifier: %v", err)
	}

	group, err := groups.CreateGroup(ctx, org.ID, admin.ID, compat.GroupInput{
		Name:  "Engine oil filter (Cat 1R-0750 family)",
		Notes: "WIX and NAPA cross-reference catalogs agree",
	})
	if err != nil {
		log.Fatalf("❌ Failed to create group: %v", err)
	}
	if _, err := groups.ReplaceMembers(ctx, org.ID, group.ID, []compat.MemberInput{
		{IdentifierID: &oem.ID, IsPrimary: true},
		{IdentifierID: &wixIdent.ID},
		{IdentifierID: &napaIdent.ID},
	}); err != nil {
		log.Fatalf("❌ Failed to set group members: %v", err)
	}
	if _, err := groups.VerifyGroup(ctx, org.ID, group.ID, admin.ID); err != nil {
		log.Fatalf("❌ Failed to verify group: %v", err)
	}
	fmt.Println("   ✓ CAT-1R-0750 ↔ WIX 57090 ↔ NAPA 7090 (verified)")

	// 6. A direct equipment-part link
	link := models.EquipmentPartLink{
		OrganizationID: org.ID,
		EquipmentID:    komatsu.ID,
		ItemID:         napa.ID,
		Notes:          "verified on the machine by the shop",
	}
	if err := db.Create(&link).Error; err != nil {
		log.Fatalf("❌ Failed to create direct link: %v", err)
	}

	fmt.Println()
	fmt.Println("✅ Demo data ready")
	fmt.Printf("   Try: GET /api/compat/search?q=cat-1r-0750 (org %s)\n", org.ID)
}

func equipment(orgID, name, manufacturer, model, serial string) models.Equipment {
	return models.Equipment{
		OrganizationID:   orgID,
		Name:             name,
		Manufacturer:     manufacturer,
		ManufacturerNorm: compat.Normalize(manufacturer),
		Model:            model,
		ModelNorm:        compat.Normalize(model),
		SerialNumber:     serial,
		Status:           "active",
	}
}

func item(orgID, name, sku string, qty int, cost *float64, location string) models.InventoryItem {
	return models.InventoryItem{
		OrganizationID:  orgID,
		Name:            name,
		SKU:             sku,
		SKUNorm:         compat.Normalize(sku),
		QuantityOnHand:  qty,
		DefaultUnitCost: cost,
		Location:        location,
	}
}

func strRef(s string) *string { return &s }
