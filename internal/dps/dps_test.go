package dps

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/udisondev/lotroev/internal/model"
	"github.com/udisondev/lotroev/internal/progression"
)

type lookupMap map[string]*Table

func (m lookupMap) DPSTable(id string) (*Table, bool) {
	t, ok := m[id]
	return t, ok
}

func swordTable() *Table {
	return NewTable("sword", map[model.Quality]float64{
		model.QualityRare:      1.1,
		model.QualityLegendary: 1.5,
		model.QualityCommon:    0, // recorded as empty
	}, []progression.Point{
		{Level: 500, Value: 300},
		{Level: 520, Value: 340},
	})
}

func TestTable_Resolve(t *testing.T) {
	tbl := swordTable()

	tests := []struct {
		name    string
		level   int
		quality model.Quality
		want    float64
	}{
		{"exact point legendary", 500, model.QualityLegendary, 450},
		{"interpolated uncommon default factor", 510, model.QualityUncommon, 320},
		{"zero factor treated as missing", 520, model.QualityCommon, 340},
		{"below range", 499, model.QualityLegendary, 0},
		{"above range", 521, model.QualityRare, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tbl.Resolve(tt.level, tt.quality), 1e-9)
		})
	}
}

func TestTable_Factor(t *testing.T) {
	tbl := swordTable()

	assert.Equal(t, 1.1, tbl.Factor(model.QualityRare))
	assert.Equal(t, 1.0, tbl.Factor(model.QualityIncomparable))
	assert.Equal(t, 1.0, tbl.Factor(model.Quality(42)))
	assert.Equal(t, map[model.Quality]float64{model.QualityRare: 1.1, model.QualityLegendary: 1.5}, tbl.Factors())
}

func TestWeaponDPS(t *testing.T) {
	tables := lookupMap{"sword": swordTable()}

	scaled := model.NewWeaponItem(1, "Sword of the Third Age", 500, model.QualityRare, nil,
		model.Equipment{Slot: "MAIN_HAND"}, model.Weapon{DPSTableID: "sword", BaseDPS: 1})
	flat := model.NewWeaponItem(2, "Old Bow", 500, model.QualityRare, nil,
		model.Equipment{Slot: "RANGED_ITEM"}, model.Weapon{BaseDPS: 123.4})
	unknownTable := model.NewWeaponItem(3, "Lost Axe", 500, model.QualityRare, nil,
		model.Equipment{Slot: "MAIN_HAND"}, model.Weapon{DPSTableID: "missing", BaseDPS: 55})
	noDPS := model.NewWeaponItem(4, "Stick", 500, model.QualityCommon, nil,
		model.Equipment{Slot: "MAIN_HAND"}, model.Weapon{})
	notWeapon := model.NewEquipmentItem(5, "Helm", 500, model.QualityRare, nil, model.Equipment{Slot: "HEAD"})

	v, ok := WeaponDPS(scaled, 510, tables)
	assert.True(t, ok)
	assert.InDelta(t, 352.0, v, 1e-9)

	v, ok = WeaponDPS(scaled, 0, tables)
	assert.True(t, ok)
	assert.InDelta(t, 330.0, v, 1e-9, "level 0 uses base level")

	v, ok = WeaponDPS(flat, 600, tables)
	assert.True(t, ok)
	assert.Equal(t, 123.4, v, "flat DPS does not scale")

	v, ok = WeaponDPS(unknownTable, 510, tables)
	assert.True(t, ok)
	assert.Equal(t, 55.0, v)

	_, ok = WeaponDPS(noDPS, 510, tables)
	assert.False(t, ok)

	_, ok = WeaponDPS(notWeapon, 510, tables)
	assert.False(t, ok)
}
