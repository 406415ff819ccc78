package valuation

import (
	"maps"
	"slices"

	"github.com/udisondev/lotroev/internal/model"
)

// EssenceCatalogue is the read-only essence data the EV model needs.
type EssenceCatalogue interface {
	model.TableLookup
	EssencesAtLevel(level int) []*model.ItemTemplate
	EssencesAtLevelNamed(level int, substr string) []*model.ItemTemplate
}

// Basis maps a stat name to the amount of that stat one reference essence grants.
type Basis map[string]float64

// Get returns the basis value for stat. Non-positive entries count as absent.
func (b Basis) Get(stat string) (float64, bool) {
	v, ok := b[stat]
	if !ok || v <= 0 {
		return 0, false
	}
	return v, true
}

// Stats returns the stat names in sorted order.
func (b Basis) Stats() []string {
	return slices.Sorted(maps.Keys(b))
}

// LoadBasis builds the reference basis from the catalogue.
//
// Every stat of every essence at the reference level is recorded at that
// level, except the supplemental stats (vitality and fate). Those are taken
// from essences at the supplemental level whose name contains the
// supplemental marker, resolved at the supplemental level. The two passes
// write disjoint stat names.
func LoadBasis(cat EssenceCatalogue, p Policy) Basis {
	basis := make(Basis, 32)
	if cat == nil {
		return basis
	}

	for _, e := range cat.EssencesAtLevel(p.ReferenceLevel) {
		for _, sv := range model.ResolveStats(e, p.ReferenceLevel, cat) {
			if p.isSupplementalStat(sv.Name) {
				continue
			}
			basis[sv.Name] = sv.Value
		}
	}

	for _, e := range cat.EssencesAtLevelNamed(p.SupplementalLevel, p.SupplementalName) {
		for _, sv := range model.ResolveStats(e, p.SupplementalLevel, cat) {
			if !p.isSupplementalStat(sv.Name) {
				continue
			}
			basis[sv.Name] = sv.Value
		}
	}

	return basis
}

// referenceVitality returns the vitality granted by the first reference-level
// essence whose name contains the vitality marker, read from the essence
// itself rather than from the basis. Returns 0 when not found.
func referenceVitality(cat EssenceCatalogue, p Policy) float64 {
	if cat == nil {
		return 0
	}
	found := cat.EssencesAtLevelNamed(p.ReferenceLevel, p.VitalityName)
	if len(found) == 0 {
		return 0
	}
	v, _ := model.StatAt(found[0], p.VitalityStat, p.ReferenceLevel, cat)
	return v
}
