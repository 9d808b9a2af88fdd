package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AlternateGroup is a named cluster of interchangeable parts.
// Evidence holds free-form supporting material (links, cross-reference
// catalog excerpts) captured when the grouping was made.
type AlternateGroup struct {
	ID             string         `gorm:"primaryKey;size:36" json:"id"`
	OrganizationID string         `gorm:"size:36;not null;index" json:"organizationId"`
	Name           string         `gorm:"not null" json:"name"`
	Status         string         `gorm:"size:16;not null;default:'unverified'" json:"status"`
	Evidence       datatypes.JSON `json:"evidence,omitempty"`
	Notes          string         `json:"notes,omitempty"`
	CreatedBy      string         `gorm:"size:36" json:"createdBy,omitempty"`
	VerifiedBy     *string        `gorm:"size:36" json:"verifiedBy,omitempty"`
	VerifiedAt     *time.Time     `json:"verifiedAt,omitempty"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Members []AlternateGroupMember `gorm:"foreignKey:GroupID" json:"members,omitempty"`
}

func (AlternateGroup) TableName() string {
	return "alternate_groups"
}

func (g *AlternateGroup) BeforeCreate(tx *gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	return nil
}

// AlternateGroupMember links a group to a part identifier or directly
// to an inventory item; at least one of the two must be set. IsPrimary
// marks the canonical (usually OEM) entry.
type AlternateGroupMember struct {
	ID           string  `gorm:"primaryKey;size:36" json:"id"`
	GroupID      string  `gorm:"size:36;not null;index;uniqueIndex:idx_members_group_identifier;uniqueIndex:idx_members_group_item" json:"groupId"`
	IdentifierID *string `gorm:"size:36;uniqueIndex:idx_members_group_identifier" json:"identifierId,omitempty"`
	ItemID       *string `gorm:"size:36;uniqueIndex:idx_members_group_item" json:"itemId,omitempty"`
	IsPrimary    bool    `gorm:"default:false" json:"isPrimary"`
	Notes        string  `json:"notes,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

func (AlternateGroupMember) TableName() string {
	return "alternate_group_members"
}

func (m *AlternateGroupMember) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
