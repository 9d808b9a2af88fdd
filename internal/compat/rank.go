package compat

import (
	"sort"

	"github.com/fleetgrid/partcompat/internal/models"
)

// Match sources for RankedPart
const (
	MatchSourceRule   = "rule"
	MatchSourceDirect = "direct"
)

// RankedPart is one equipment-compatible inventory item
type RankedPart struct {
	EquipmentID string               `json:"equipmentId"`
	Item        models.InventoryItem `json:"item"`
	MatchType   string               `json:"matchType"` // "rule" or "direct"
	RuleID      string               `json:"ruleId,omitempty"`
	RuleLabel   *string              `json:"ruleLabel,omitempty"` // manufacturer/model pattern of the matching rule
	IsInStock   bool                 `json:"isInStock"`
	IsLowStock  bool                 `json:"isLowStock"`
}

// RankedAlternate is one row of an alternate-parts resolution
type RankedAlternate struct {
	GroupID         string   `json:"groupId,omitempty"` // empty for synthetic direct matches
	GroupName       *string  `json:"groupName,omitempty"`
	GroupStatus     string   `json:"groupStatus"`
	MemberID        string   `json:"memberId,omitempty"`
	IdentifierID    *string  `json:"identifierId,omitempty"`
	IdentifierType  string   `json:"identifierType,omitempty"`
	Value           string   `json:"value"` // the part number shown for this row
	Manufacturer    string   `json:"manufacturer,omitempty"`
	IsPrimary       bool     `json:"isPrimary"`
	ItemID          *string  `json:"itemId,omitempty"`
	ItemName        *string  `json:"itemName,omitempty"`
	Location        string   `json:"location,omitempty"`
	ImageURL        string   `json:"imageUrl,omitempty"`
	UnitCost        *float64 `json:"unitCost,omitempty"`
	QuantityOnHand  int      `json:"quantityOnHand"`
	IsInStock       bool     `json:"isInStock"`
	IsLowStock      bool     `json:"isLowStock"`
	IsMatchingInput bool     `json:"isMatchingInput"`
	IsSourceItem    bool     `json:"isSourceItem,omitempty"`
}

// rankKey is the shared ordering view every result type projects into.
// The order surfaces the cheapest in-stock canonical alternative first.
type rankKey struct {
	grouped   bool
	groupName *string
	primary   bool
	inStock   bool
	unitCost  *float64
	itemName  *string
	tiebreak  string // unique per row, keeps the order total
}

func (p RankedPart) rankKey() rankKey {
	var name *string
	if p.Item.Name != "" {
		n := p.Item.Name
		name = &n
	}
	return rankKey{
		grouped:   p.MatchType == MatchSourceRule,
		groupName: p.RuleLabel,
		primary:   false,
		inStock:   p.IsInStock,
		unitCost:  p.Item.DefaultUnitCost,
		itemName:  name,
		tiebreak:  p.EquipmentID + "/" + p.Item.ID,
	}
}

func (a RankedAlternate) rankKey() rankKey {
	itemID := ""
	if a.ItemID != nil {
		itemID = *a.ItemID
	}
	return rankKey{
		grouped:   a.GroupID != "",
		groupName: a.GroupName,
		primary:   a.IsPrimary,
		inStock:   a.IsInStock,
		unitCost:  a.UnitCost,
		itemName:  a.ItemName,
		tiebreak:  a.GroupID + "/" + a.MemberID + "/" + itemID + "/" + a.Value,
	}
}

// lessRank is the deterministic total order of the ranking engine:
//  1. grouped results before ungrouped/direct matches
//  2. group/template name ascending, nulls last
//  3. primary member before non-primary
//  4. in-stock before out-of-stock
//  5. unit cost ascending, nulls last
//  6. item name ascending, nulls last
func lessRank(a, b rankKey) bool {
	if a.grouped != b.grouped {
		return a.grouped
	}
	if c := compareNullableString(a.groupName, b.groupName); c != 0 {
		return c < 0
	}
	if a.primary != b.primary {
		return a.primary
	}
	if a.inStock != b.inStock {
		return a.inStock
	}
	if c := compareNullableFloat(a.unitCost, b.unitCost); c != 0 {
		return c < 0
	}
	if c := compareNullableString(a.itemName, b.itemName); c != 0 {
		return c < 0
	}
	return a.tiebreak < b.tiebreak
}

func compareNullableString(a, b *string) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1 // nulls last
	case b == nil:
		return -1
	case *a < *b:
		return -1
	case *a > *b:
		return 1
	}
	return 0
}

func compareNullableFloat(a, b *float64) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1 // nulls last
	case b == nil:
		return -1
	case *a < *b:
		return -1
	case *a > *b:
		return 1
	}
	return 0
}

// RankParts orders equipment-match results in place
func RankParts(parts []RankedPart) {
	sort.SliceStable(parts, func(i, j int) bool {
		return lessRank(parts[i].rankKey(), parts[j].rankKey())
	})
}

// RankAlternates orders alternate-resolution results in place
func RankAlternates(alts []RankedAlternate) {
	sort.SliceStable(alts, func(i, j int) bool {
		return lessRank(alts[i].rankKey(), alts[j].rankKey())
	})
}
