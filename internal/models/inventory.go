package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultLowStockThreshold applies when an item has no explicit threshold
const DefaultLowStockThreshold = 5

// InventoryItem is a stocked part. Stock levels are mutated by the
// external stock-transaction pipeline; the resolver only reads them.
type InventoryItem struct {
	ID                string   `gorm:"primaryKey;size:36" json:"id"`
	OrganizationID    string   `gorm:"size:36;not null;index" json:"organizationId"`
	Name              string   `gorm:"not null" json:"name"`
	SKU               string   `json:"sku"`
	SKUNorm           string   `gorm:"size:255;index" json:"-"`
	ExternalID        string   `json:"externalId,omitempty"`
	ExternalIDNorm    string   `gorm:"size:255;index" json:"-"`
	QuantityOnHand    int      `gorm:"default:0" json:"quantityOnHand"`
	LowStockThreshold *int     `json:"lowStockThreshold,omitempty"`
	DefaultUnitCost   *float64 `json:"defaultUnitCost,omitempty"`
	Location          string   `json:"location,omitempty"`
	ImageURL          string   `json:"imageUrl,omitempty"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (InventoryItem) TableName() string {
	return "inventory_items"
}

func (i *InventoryItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

// IsInStock reports whether any stock is on hand
func (i *InventoryItem) IsInStock() bool {
	return i.QuantityOnHand > 0
}

// IsLowStock reports whether stock is at or below the threshold
func (i *InventoryItem) IsLowStock() bool {
	threshold := DefaultLowStockThreshold
	if i.LowStockThreshold != nil {
		threshold = *i.LowStockThreshold
	}
	return i.QuantityOnHand <= threshold
}
