// Package dps resolves weapon damage-per-second from level-scaled DPS tables.
package dps

import (
	"github.com/udisondev/lotroev/internal/model"
	"github.com/udisondev/lotroev/internal/progression"
)

// Table is a DPS table from dpsTables.xml: base DPS per level plus one
// multiplier per quality tier. Immutable after construction.
type Table struct {
	id      string
	factors [model.QualityCount]float64 // 0 = not recorded
	points  []progression.Point         // sorted by level
}

// NewTable builds a DPS table. Missing or zero quality factors count as 1.0.
func NewTable(id string, factors map[model.Quality]float64, points []progression.Point) *Table {
	t := &Table{
		id: id,
		// same dedup/sort rules as progression tables
		points: progression.NewTable(id, progression.ModeLinear, points).Points(),
	}
	for q, f := range factors {
		if int(q) >= 0 && int(q) < model.QualityCount {
			t.factors[q] = f
		}
	}
	return t
}

func (t *Table) ID() string { return t.id }

// Points returns a copy of the base DPS points.
func (t *Table) Points() []progression.Point {
	out := make([]progression.Point, len(t.points))
	copy(out, t.points)
	return out
}

// Factors returns the recorded factors; unrecorded tiers are absent.
func (t *Table) Factors() map[model.Quality]float64 {
	out := make(map[model.Quality]float64, model.QualityCount)
	for q, f := range t.factors {
		if f != 0 {
			out[model.Quality(q)] = f
		}
	}
	return out
}

// Factor returns the multiplier for quality, 1.0 when not recorded.
func (t *Table) Factor(q model.Quality) float64 {
	if int(q) < 0 || int(q) >= model.QualityCount {
		return 1.0
	}
	if f := t.factors[q]; f != 0 {
		return f
	}
	return 1.0
}

// BaseAt returns the interpolated base DPS at level (0 outside the range).
func (t *Table) BaseAt(level int) float64 {
	return progression.Interpolate(t.points, level)
}

// Resolve returns base DPS at level times the quality factor.
func (t *Table) Resolve(level int, q model.Quality) float64 {
	return t.BaseAt(level) * t.Factor(q)
}

// Lookup resolves a DPS table by identifier.
type Lookup interface {
	DPSTable(id string) (*Table, bool)
}

// WeaponDPS returns the weapon's DPS at level. Weapons with a DPS table
// scale with level and quality; others fall back to the flat authored DPS.
// ok is false when the item is not a weapon or has no known DPS.
// A level <= 0 means the item's base level.
func WeaponDPS(item *model.ItemTemplate, level int, tables Lookup) (float64, bool) {
	if !item.IsWeapon() {
		return 0, false
	}
	if level <= 0 {
		level = item.BaseLevel
	}

	w := item.Weapon
	if w.DPSTableID != "" && tables != nil {
		if tbl, ok := tables.DPSTable(w.DPSTableID); ok && tbl != nil {
			return tbl.Resolve(level, item.Quality), true
		}
	}
	if w.BaseDPS != 0 {
		return w.BaseDPS, true
	}
	return 0, false
}
