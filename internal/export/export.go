// Package export writes EV rankings to spreadsheet and SQLite files.
package export

import (
	"github.com/udisondev/lotroev/internal/valuation"
)

// Report is one ranking run.
type Report struct {
	Level            int // 0 means each item's base level
	Basis            valuation.Basis
	VitalSocketValue float64
	Valuations       []valuation.Valuation
}

// statColumns returns every stat name that appears in vs, in order of first
// appearance.
func statColumns(vs []valuation.Valuation) []string {
	seen := make(map[string]struct{}, 32)
	cols := make([]string, 0, 32)
	for _, v := range vs {
		for _, sv := range v.Sheet() {
			if _, ok := seen[sv.Name]; ok {
				continue
			}
			seen[sv.Name] = struct{}{}
			cols = append(cols, sv.Name)
		}
	}
	return cols
}
