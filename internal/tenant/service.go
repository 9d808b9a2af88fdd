package tenant

import (
	"context"
	"errors"

	"github.com/fleetgrid/partcompat/internal/compat"
	"github.com/fleetgrid/partcompat/internal/models"
	"gorm.io/gorm"
)

// Service answers membership questions for the organization boundary.
// Reads require an active membership; writes require the admin role.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

func (s *Service) membership(ctx context.Context, userID, orgID string) (*models.OrgMembership, error) {
	var m models.OrgMembership
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND organization_id = ?", userID, orgID).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// RequireMember returns a permission error unless the user holds an
// active membership in the organization.
func (s *Service) RequireMember(ctx context.Context, userID, orgID string) error {
	m, err := s.membership(ctx, userID, orgID)
	if err != nil {
		return err
	}
	if m == nil || m.Status != models.MembershipActive {
		return &compat.PermissionError{UserID: userID, OrganizationID: orgID, Op: "read"}
	}
	return nil
}

// RequireAdmin returns a permission error unless the user is an
// active admin of the organization.
func (s *Service) RequireAdmin(ctx context.Context, userID, orgID string) error {
	m, err := s.membership(ctx, userID, orgID)
	if err != nil {
		return err
	}
	if m == nil || m.Status != models.MembershipActive || m.Role != models.RoleAdmin {
		return &compat.PermissionError{UserID: userID, OrganizationID: orgID, Op: "write"}
	}
	return nil
}
