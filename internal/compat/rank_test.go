package compat

import (
	"math/rand"
	"reflect"
	"testing"
)

func alt(group, member, value string, primary, inStock bool, cost *float64) RankedAlternate {
	var name *string
	if group != "" {
		n := "Group " + group
		name = &n
	}
	return RankedAlternate{
		GroupID:   group,
		GroupName: name,
		MemberID:  member,
		Value:     value,
		IsPrimary: primary,
		IsInStock: inStock,
		UnitCost:  cost,
	}
}

func TestRankAlternatesOrder(t *testing.T) {
	rows := []RankedAlternate{
		alt("", "", "loose-part", true, true, floatPtr(1)),         // ungrouped sorts last
		alt("g1", "m4", "out-cheap", false, false, floatPtr(9)),    // out of stock loses
		alt("g1", "m3", "in-expensive", false, true, floatPtr(12)), // in stock wins over cheaper out-of-stock
		alt("g1", "m2", "in-cheap", false, true, floatPtr(4)),
		alt("g1", "m1", "primary-out", true, false, floatPtr(99)), // primary beats stock and cost
		alt("g2", "m5", "other-group", true, true, floatPtr(1)),   // later group name
	}

	RankAlternates(rows)

	want := []string{"primary-out", "in-cheap", "in-expensive", "out-cheap", "other-group", "loose-part"}
	got := make([]string, len(rows))
	for i, r := range rows {
		got[i] = r.Value
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Rank order = %v, want %v", got, want)
	}
}

func TestRankAlternatesInStockBeforeCheaper(t *testing.T) {
	rows := []RankedAlternate{
		alt("g1", "m1", "nine-dollar-out", false, false, floatPtr(9)),
		alt("g1", "m2", "twelve-dollar-in", false, true, floatPtr(12)),
	}
	RankAlternates(rows)
	if rows[0].Value != "twelve-dollar-in" {
		t.Errorf("Expected the in-stock $12 part first, got %q", rows[0].Value)
	}
}

func TestRankAlternatesNullsLast(t *testing.T) {
	rows := []RankedAlternate{
		alt("g1", "m1", "no-cost", false, true, nil),
		alt("g1", "m2", "costed", false, true, floatPtr(50)),
	}
	RankAlternates(rows)
	if rows[0].Value != "costed" {
		t.Errorf("Rows without a cost should sort after costed rows, got %q first", rows[0].Value)
	}
}

// The order must be total: shuffling the input never changes the output.
func TestRankAlternatesDeterministic(t *testing.T) {
	base := []RankedAlternate{
		alt("g1", "m1", "a", true, true, floatPtr(3)),
		alt("g1", "m2", "b", false, true, floatPtr(3)),
		alt("g1", "m3", "c", false, true, floatPtr(3)),
		alt("g2", "m4", "d", false, false, nil),
		alt("", "", "e", true, true, nil),
		alt("", "", "f", true, false, floatPtr(1)),
	}

	first := append([]RankedAlternate(nil), base...)
	RankAlternates(first)

	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 20; trial++ {
		shuffled := append([]RankedAlternate(nil), base...)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
		RankAlternates(shuffled)
		if !reflect.DeepEqual(shuffled, first) {
			t.Fatalf("Trial %d: shuffled input produced a different order", trial)
		}
	}
}

func TestRankPartsRuleBeforeDirect(t *testing.T) {
	parts := []RankedPart{
		{EquipmentID: "e1", MatchType: MatchSourceDirect, IsInStock: true},
		{EquipmentID: "e1", MatchType: MatchSourceRule, RuleLabel: strPtr("caterpillar 320"), IsInStock: false},
	}
	RankParts(parts)
	if parts[0].MatchType != MatchSourceRule {
		t.Errorf("Rule matches should rank before direct links, got %q first", parts[0].MatchType)
	}
}
