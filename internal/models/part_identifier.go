package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Identifier types
const (
	IdentifierOEM         = "oem"
	IdentifierAftermarket = "aftermarket"
	IdentifierSKU         = "sku"
	IdentifierMPN         = "mpn"
	IdentifierUPC         = "upc"
	IdentifierCrossRef    = "cross_ref"
)

// PartIdentifier is a named reference to a part number (OEM number,
// aftermarket number, SKU, MPN...). No two identifiers of the same
// type may share a normalized value within one organization.
type PartIdentifier struct {
	ID             string  `gorm:"primaryKey;size:36" json:"id"`
	OrganizationID string  `gorm:"size:36;not null;uniqueIndex:idx_identifiers_org_type_value" json:"organizationId"`
	IdentifierType string  `gorm:"size:20;not null;uniqueIndex:idx_identifiers_org_type_value" json:"identifierType"`
	Value          string  `gorm:"not null" json:"value"`
	ValueNorm      string  `gorm:"size:255;not null;uniqueIndex:idx_identifiers_org_type_value;index" json:"-"`
	Manufacturer   string  `json:"manufacturer,omitempty"`
	ItemID         *string `gorm:"size:36;index" json:"itemId,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (PartIdentifier) TableName() string {
	return "part_identifiers"
}

func (p *PartIdentifier) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
