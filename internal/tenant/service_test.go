package tenant

import (
	"context"
	"testing"

	"github.com/fleetgrid/partcompat/internal/compat"
	"github.com/fleetgrid/partcompat/internal/models"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setup(t *testing.T) (*gorm.DB, *Service, models.Organization) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&models.Organization{}, &models.OrgMembership{}); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	org := models.Organization{Name: "Fleet Co"}
	if err := db.Create(&org).Error; err != nil {
		t.Fatalf("Failed to create org: %v", err)
	}
	return db, NewService(db), org
}

func addMembership(t *testing.T, db *gorm.DB, userID, orgID, role, status string) {
	t.Helper()
	m := models.OrgMembership{UserID: userID, OrganizationID: orgID, Role: role, Status: status}
	if err := db.Create(&m).Error; err != nil {
		t.Fatalf("Failed to create membership: %v", err)
	}
}

func TestRequireMember(t *testing.T) {
	db, svc, org := setup(t)
	ctx := context.Background()

	member := "11111111-1111-1111-1111-111111111111"
	invited := "22222222-2222-2222-2222-222222222222"
	stranger := "33333333-3333-3333-3333-333333333333"
	addMembership(t, db, member, org.ID, models.RoleMember, models.MembershipActive)
	addMembership(t, db, invited, org.ID, models.RoleMember, models.MembershipInvited)

	if err := svc.RequireMember(ctx, member, org.ID); err != nil {
		t.Errorf("Active member should pass: %v", err)
	}
	if err := svc.RequireMember(ctx, invited, org.ID); !compat.IsPermission(err) {
		t.Errorf("Invited (not yet active) member should be denied, got %v", err)
	}
	if err := svc.RequireMember(ctx, stranger, org.ID); !compat.IsPermission(err) {
		t.Errorf("Non-member should be denied, got %v", err)
	}
}

func TestRequireAdmin(t *testing.T) {
	db, svc, org := setup(t)
	ctx := context.Background()

	admin := "11111111-1111-1111-1111-111111111111"
	member := "22222222-2222-2222-2222-222222222222"
	disabledAdmin := "33333333-3333-3333-3333-333333333333"
	addMembership(t, db, admin, org.ID, models.RoleAdmin, models.MembershipActive)
	addMembership(t, db, member, org.ID, models.RoleMember, models.MembershipActive)
	addMembership(t, db, disabledAdmin, org.ID, models.RoleAdmin, models.MembershipDisabled)

	if err := svc.RequireAdmin(ctx, admin, org.ID); err != nil {
		t.Errorf("Active admin should pass: %v", err)
	}
	if err := svc.RequireAdmin(ctx, member, org.ID); !compat.IsPermission(err) {
		t.Errorf("Plain member should be denied writes, got %v", err)
	}
	if err := svc.RequireAdmin(ctx, disabledAdmin, org.ID); !compat.IsPermission(err) {
		t.Errorf("Disabled admin should be denied, got %v", err)
	}
}
