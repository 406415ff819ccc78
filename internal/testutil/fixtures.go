package testutil

import (
	"github.com/udisondev/lotroev/internal/data"
	"github.com/udisondev/lotroev/internal/dps"
	"github.com/udisondev/lotroev/internal/model"
	"github.com/udisondev/lotroev/internal/progression"
)

// Fixture item keys.
const (
	KeyVividMight        int64 = 1001
	KeyVividCrit         int64 = 1002
	KeyVividPhysMit      int64 = 1003
	KeyVividTactMit      int64 = 1004
	KeyVividVitality     int64 = 1005
	KeyVividFate         int64 = 1006
	KeySupplementalVit   int64 = 2001
	KeySupplementalFate  int64 = 2002
	KeyLesserFate        int64 = 2003
	KeyHelm              int64 = 3001
	KeySword             int64 = 3002
	KeyTrinket           int64 = 3003
	KeyFlatBow           int64 = 3004
	FixtureDPSTableSword       = "sword-dps"
)

// Fixtures describes the expected reference values of FixtureCatalogue.
//
// Basis: MIGHT 1000, CRITICAL_RATING 2000, PHYSICAL_MITIGATION 5000,
// TACTICAL_MITIGATION 4000, VITALITY 100 (supplemental), FATE 50
// (supplemental). Reference vitality is 1000, so a vital socket is worth 10.
var Fixtures = struct {
	Basis             map[string]float64
	ReferenceVitality float64
	VitalSocketValue  float64
}{
	Basis: map[string]float64{
		"MIGHT":               1000,
		"CRITICAL_RATING":     2000,
		"PHYSICAL_MITIGATION": 5000,
		"TACTICAL_MITIGATION": 4000,
		"VITALITY":            100,
		"FATE":                50,
	},
	ReferenceVitality: 1000,
	VitalSocketValue:  10,
}

func linear(id string, pts ...progression.Point) *progression.Table {
	return progression.NewTable(id, progression.ModeLinear, pts)
}

func pt(level int, value float64) progression.Point {
	return progression.Point{Level: level, Value: value}
}

func stat(name, table string, order int) model.StatRef {
	return model.StatRef{Name: name, TableID: table, Order: order}
}

// FixtureTables returns the progression tables used by FixtureItems.
func FixtureTables() []*progression.Table {
	return []*progression.Table{
		linear("vivid-might", pt(500, 800), pt(532, 1000), pt(540, 1100)),
		linear("vivid-crit", pt(532, 2000)),
		linear("vivid-pmit", pt(532, 5000)),
		linear("vivid-tmit", pt(532, 4000)),
		linear("vivid-vit", pt(532, 1000)),
		linear("vivid-fate", pt(532, 300)),
		linear("supp-vit", pt(508, 100)),
		linear("supp-fate", pt(508, 50)),
		linear("supp-junk", pt(508, 9999)),
		linear("item-might", pt(500, 500), pt(540, 900)),
		linear("item-armour", pt(500, 5000), pt(540, 9000)),
		linear("item-vit", pt(500, 50), pt(540, 90)),
		progression.NewTable("item-crit-array", progression.ModeArray, []progression.Point{pt(520, 400)}),
	}
}

// FixtureDPSTables returns the DPS tables used by FixtureItems.
func FixtureDPSTables() []*dps.Table {
	return []*dps.Table{
		dps.NewTable(FixtureDPSTableSword, map[model.Quality]float64{
			model.QualityRare:      1.1,
			model.QualityLegendary: 1.5,
		}, []progression.Point{pt(500, 300), pt(540, 340)}),
	}
}

// FixtureItems returns reference essences and a few equipment items.
func FixtureItems() []*model.ItemTemplate {
	vivid := func(key int64, name, statName, table string) *model.ItemTemplate {
		return model.NewEssenceItem(key, name, 532, model.QualityIncomparable,
			[]model.StatRef{stat(statName, table, 0)}, model.Essence{Tier: 14, Type: 1})
	}

	return []*model.ItemTemplate{
		vivid(KeyVividMight, "Vivid Essence of Might", "MIGHT", "vivid-might"),
		vivid(KeyVividCrit, "Vivid Essence of Critical Rating", "CRITICAL_RATING", "vivid-crit"),
		vivid(KeyVividPhysMit, "Vivid Essence of Physical Mitigation", "PHYSICAL_MITIGATION", "vivid-pmit"),
		vivid(KeyVividTactMit, "Vivid Essence of Tactical Mitigation", "TACTICAL_MITIGATION", "vivid-tmit"),
		vivid(KeyVividVitality, "Vivid Essence of Vitality", "VITALITY", "vivid-vit"),
		vivid(KeyVividFate, "Vivid Essence of Fate", "FATE", "vivid-fate"),

		model.NewEssenceItem(KeySupplementalVit, "Supplemental Essence of Vitality", 508, model.QualityRare,
			[]model.StatRef{stat("VITALITY", "supp-vit", 0), stat("MIGHT", "supp-junk", 1)},
			model.Essence{Tier: 13, Type: 23}),
		model.NewEssenceItem(KeySupplementalFate, "Supplemental Essence of Fate", 508, model.QualityRare,
			[]model.StatRef{stat("FATE", "supp-fate", 0)}, model.Essence{Tier: 13, Type: 23}),
		model.NewEssenceItem(KeyLesserFate, "Lesser Essence of Fate", 508, model.QualityRare,
			[]model.StatRef{stat("FATE", "supp-junk", 0)}, model.Essence{Tier: 13, Type: 1}),

		model.NewEquipmentItem(KeyHelm, "Helm of the Proving Grounds", 520, model.QualityIncomparable,
			[]model.StatRef{
				stat("ARMOUR", "item-armour", 0),
				stat("MIGHT", "item-might", 1),
				stat("VITALITY", "item-vit", 2),
			},
			model.Equipment{Slot: "HEAD", ArmourType: "HEAVY", Sockets: model.ParseSockets("SV")}),
		model.NewWeaponItem(KeySword, "Sword of the Proving Grounds", 500, model.QualityRare,
			[]model.StatRef{stat("MIGHT", "item-might", 0), stat("CRITICAL_RATING", "item-crit-array", 1)},
			model.Equipment{Slot: "MAIN_HAND", Sockets: model.ParseSockets("P")},
			model.Weapon{DPSTableID: FixtureDPSTableSword, WeaponType: "ONE_HANDED_SWORD", DamageType: "COMMON"}),
		model.NewItem(KeyTrinket, "Trinket", 500, model.QualityCommon,
			[]model.StatRef{stat("UNKNOWN_STAT", "item-might", 0)}),
		model.NewWeaponItem(KeyFlatBow, "Old Bow", 500, model.QualityUncommon, nil,
			model.Equipment{Slot: "RANGED_ITEM"}, model.Weapon{BaseDPS: 123.5, WeaponType: "BOW"}),
	}
}

// FixtureCatalogue returns a catalogue with the fixture tables and items.
func FixtureCatalogue() *data.Catalogue {
	c := data.NewCatalogue()
	c.AddProgressionTables(FixtureTables()...)
	c.AddDPSTables(FixtureDPSTables()...)
	c.AddItems(FixtureItems()...)
	return c
}
