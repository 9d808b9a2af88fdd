package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PMTemplate is a preventive-maintenance checklist template.
// OrganizationID = nil marks a global template: readable by every
// organization, writable by none (orgs attach their own rule overlays).
type PMTemplate struct {
	ID             string  `gorm:"primaryKey;size:36" json:"id"`
	OrganizationID *string `gorm:"size:36;index" json:"organizationId,omitempty"`
	Name           string  `gorm:"not null" json:"name"`
	Description    string  `json:"description,omitempty"`
	IntervalDays   int     `gorm:"default:0" json:"intervalDays"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (PMTemplate) TableName() string {
	return "pm_templates"
}

func (t *PMTemplate) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// IsGlobal reports whether this template is the shared, read-only kind
func (t *PMTemplate) IsGlobal() bool {
	return t.OrganizationID == nil
}
