package compat

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/fleetgrid/partcompat/internal/models"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// GroupInput describes a new alternate group
type GroupInput struct {
	Name     string         `json:"name"`
	Notes    string         `json:"notes,omitempty"`
	Evidence datatypes.JSON `json:"evidence,omitempty"`
}

// MemberInput is one member of a replace-members request
type MemberInput struct {
	IdentifierID *string `json:"identifierId,omitempty"`
	ItemID       *string `json:"itemId,omitempty"`
	IsPrimary    bool    `json:"isPrimary"`
	Notes        string  `json:"notes,omitempty"`
}

// IdentifierInput describes a part identifier to register
type IdentifierInput struct {
	IdentifierType string  `json:"identifierType"`
	Value          string  `json:"value"`
	Manufacturer   string  `json:"manufacturer,omitempty"`
	ItemID         *string `json:"itemId,omitempty"`
}

// GroupStore owns alternate groups, their members, and part
// identifiers. Member sets use the same full-replace semantics as the
// rule store.
type GroupStore struct {
	db *gorm.DB
}

// NewGroupStore creates a group store
func NewGroupStore(db *gorm.DB) *GroupStore {
	return &GroupStore{db: db}
}

// CreateGroup creates an unverified alternate group
func (s *GroupStore) CreateGroup(ctx context.Context, orgID, userID string, in GroupInput) (*models.AlternateGroup, error) {
	if _, err := uuid.Parse(orgID); err != nil {
		return nil, &ValidationError{Field: "organization_id", Reason: "must be a valid UUID"}
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, &ValidationError{Field: "name", Reason: "is required"}
	}

	group := models.AlternateGroup{
		OrganizationID: orgID,
		Name:           name,
		Status:         models.VerificationUnverified,
		Evidence:       in.Evidence,
		Notes:          in.Notes,
		CreatedBy:      userID,
	}
	if err := s.db.WithContext(ctx).Create(&group).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

// VerifyGroup marks a group verified, recording who and when
func (s *GroupStore) VerifyGroup(ctx context.Context, orgID, groupID, userID string) (*models.AlternateGroup, error) {
	group, err := s.groupInOrg(ctx, orgID, groupID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	group.Status = models.VerificationVerified
	group.VerifiedBy = &userID
	group.VerifiedAt = &now
	if err := s.db.WithContext(ctx).Save(group).Error; err != nil {
		return nil, err
	}
	return group, nil
}

// DeprecateGroup marks a group deprecated; its members stop being
// offered as alternates by callers that filter on status.
func (s *GroupStore) DeprecateGroup(ctx context.Context, orgID, groupID string) (*models.AlternateGroup, error) {
	group, err := s.groupInOrg(ctx, orgID, groupID)
	if err != nil {
		return nil, err
	}
	group.Status = models.VerificationDeprecated
	if err := s.db.WithContext(ctx).Save(group).Error; err != nil {
		return nil, err
	}
	return group, nil
}

// ReplaceMembers atomically replaces a group's member set:
// delete-then-insert inside one transaction, duplicate references
// deduplicated first-wins. Members must reference an identifier or an
// item (or both) belonging to the same organization. Returns the
// number of members inserted.
func (s *GroupStore) ReplaceMembers(ctx context.Context, orgID, groupID string, inputs []MemberInput) (int, error) {
	if _, err := uuid.Parse(groupID); err != nil {
		return 0, &ValidationError{Field: "group_id", Reason: "must be a valid UUID"}
	}
	if _, err := s.groupInOrg(ctx, orgID, groupID); err != nil {
		return 0, err
	}

	inserted := 0
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("group_id = ?", groupID).
			Delete(&models.AlternateGroupMember{}).Error; err != nil {
			return err
		}

		seenIdentifier := make(map[string]bool)
		seenItem := make(map[string]bool)
		for _, in := range inputs {
			if in.IdentifierID == nil && in.ItemID == nil {
				return &ValidationError{Field: "member", Reason: "requires an identifier_id or item_id"}
			}

			if in.IdentifierID != nil {
				if seenIdentifier[*in.IdentifierID] {
					continue
				}
				var count int64
				if err := tx.Model(&models.PartIdentifier{}).
					Where("id = ? AND organization_id = ?", *in.IdentifierID, orgID).
					Count(&count).Error; err != nil {
					return err
				}
				if count == 0 {
					return &NotFoundError{Kind: "part identifier", ID: *in.IdentifierID}
				}
				seenIdentifier[*in.IdentifierID] = true
			}
			if in.ItemID != nil {
				if seenItem[*in.ItemID] {
					continue
				}
				var count int64
				if err := tx.Model(&models.InventoryItem{}).
					Where("id = ? AND organization_id = ?", *in.ItemID, orgID).
					Count(&count).Error; err != nil {
					return err
				}
				if count == 0 {
					return &NotFoundError{Kind: "inventory item", ID: *in.ItemID}
				}
				seenItem[*in.ItemID] = true
			}

			member := models.AlternateGroupMember{
				GroupID:      groupID,
				IdentifierID: in.IdentifierID,
				ItemID:       in.ItemID,
				IsPrimary:    in.IsPrimary,
				Notes:        in.Notes,
			}
			if err := tx.Create(&member).Error; err != nil {
				return err
			}
			inserted++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

// RegisterIdentifier inserts a single part identifier. Unlike the bulk
// replace paths this is a plain insert, so a duplicate
// (organization, type, normalized value) is a ConflictError.
func (s *GroupStore) RegisterIdentifier(ctx context.Context, orgID string, in IdentifierInput) (*models.PartIdentifier, error) {
	if _, err := uuid.Parse(orgID); err != nil {
		return nil, &ValidationError{Field: "organization_id", Reason: "must be a valid UUID"}
	}
	value := strings.TrimSpace(in.Value)
	if value == "" {
		return nil, &ValidationError{Field: "value", Reason: "is required"}
	}
	if !validIdentifierType(in.IdentifierType) {
		return nil, &ValidationError{Field: "identifier_type", Reason: "must be one of oem, aftermarket, sku, mpn, upc, cross_ref"}
	}
	if in.ItemID != nil {
		var count int64
		if err := s.db.WithContext(ctx).Model(&models.InventoryItem{}).
			Where("id = ? AND organization_id = ?", *in.ItemID, orgID).
			Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, &NotFoundError{Kind: "inventory item", ID: *in.ItemID}
		}
	}

	norm := Normalize(value)
	var existing int64
	if err := s.db.WithContext(ctx).Model(&models.PartIdentifier{}).
		Where("organization_id = ? AND identifier_type = ? AND value_norm = ?", orgID, in.IdentifierType, norm).
		Count(&existing).Error; err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, &ConflictError{Kind: "part identifier", Key: in.IdentifierType + ":" + norm}
	}

	identifier := models.PartIdentifier{
		OrganizationID: orgID,
		IdentifierType: in.IdentifierType,
		Value:          value,
		ValueNorm:      norm,
		Manufacturer:   in.Manufacturer,
		ItemID:         in.ItemID,
	}
	if err := s.db.WithContext(ctx).Create(&identifier).Error; err != nil {
		return nil, err
	}
	return &identifier, nil
}

func (s *GroupStore) groupInOrg(ctx context.Context, orgID, groupID string) (*models.AlternateGroup, error) {
	var group models.AlternateGroup
	err := s.db.WithContext(ctx).
		Where("id = ? AND organization_id = ?", groupID, orgID).
		First(&group).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Kind: "alternate group", ID: groupID}
	}
	if err != nil {
		return nil, err
	}
	return &group, nil
}

func validIdentifierType(t string) bool {
	switch t {
	case models.IdentifierOEM, models.IdentifierAftermarket, models.IdentifierSKU,
		models.IdentifierMPN, models.IdentifierUPC, models.IdentifierCrossRef:
		return true
	}
	return false
}
