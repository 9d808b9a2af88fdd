package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Membership roles and states
const (
	RoleAdmin  = "admin"
	RoleMember = "member"

	MembershipActive   = "active"
	MembershipInvited  = "invited"
	MembershipDisabled = "disabled"
)

// Organization is the tenant boundary. Every domain entity belongs to
// exactly one organization, except global PM templates.
type Organization struct {
	ID       string `gorm:"primaryKey;size:36" json:"id"`
	Name     string `gorm:"not null" json:"name"`
	Timezone string `gorm:"default:'UTC'" json:"timezone"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Organization) TableName() string {
	return "organizations"
}

func (o *Organization) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

// OrgMembership links a user to an organization with a role
type OrgMembership struct {
	ID             string `gorm:"primaryKey;size:36" json:"id"`
	UserID         string `gorm:"size:36;not null;uniqueIndex:idx_memberships_user_org" json:"userId"`
	OrganizationID string `gorm:"size:36;not null;uniqueIndex:idx_memberships_user_org" json:"organizationId"`
	Role           string `gorm:"size:20;not null;default:'member'" json:"role"`
	Status         string `gorm:"size:20;not null;default:'active'" json:"status"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (OrgMembership) TableName() string {
	return "org_memberships"
}

func (m *OrgMembership) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
