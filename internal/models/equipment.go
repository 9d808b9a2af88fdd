package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Equipment is a maintained asset (truck, excavator, generator...).
// ManufacturerNorm/ModelNorm are the canonical comparison keys and are
// written by the same normalizer used for every lookup.
type Equipment struct {
	ID               string `gorm:"primaryKey;size:36" json:"id"`
	OrganizationID   string `gorm:"size:36;not null;index" json:"organizationId"`
	Name             string `gorm:"not null" json:"name"`
	Manufacturer     string `gorm:"not null" json:"manufacturer"`
	ManufacturerNorm string `gorm:"size:255;not null;index" json:"-"`
	Model            string `json:"model"`
	ModelNorm        string `gorm:"size:255;index" json:"-"`
	SerialNumber     string `json:"serialNumber,omitempty"`
	Status           string `gorm:"size:20;default:'active'" json:"status"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Equipment) TableName() string {
	return "equipment"
}

func (e *Equipment) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

// EquipmentPartLink is an explicit equipment<->item association,
// independent of rule matching. At most one link per pair.
type EquipmentPartLink struct {
	ID             string `gorm:"primaryKey;size:36" json:"id"`
	OrganizationID string `gorm:"size:36;not null;index" json:"organizationId"`
	EquipmentID    string `gorm:"size:36;not null;uniqueIndex:idx_equipment_part_links_pair" json:"equipmentId"`
	ItemID         string `gorm:"size:36;not null;uniqueIndex:idx_equipment_part_links_pair" json:"itemId"`
	Notes          string `json:"notes,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

func (EquipmentPartLink) TableName() string {
	return "equipment_part_links"
}

func (l *EquipmentPartLink) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}
