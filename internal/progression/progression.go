// Package progression resolves item-level scaling tables.
//
// A Table maps integer item levels to stat values. Linear tables interpolate
// between authored control points; array tables only answer exact levels.
// Any level that cannot be answered resolves to 0 instead of an error, and
// the miss can be reported through an Observer.
package progression

import (
	"sort"
	"strings"
)

// Mode is the lookup rule of a progression table.
type Mode int8

const (
	ModeLinear Mode = iota
	ModeArray
)

// String returns the lowercase mode name used in storage.
func (m Mode) String() string {
	switch m {
	case ModeLinear:
		return "linear"
	case ModeArray:
		return "array"
	default:
		return "unknown"
	}
}

// ParseMode parses "linear" or "array" (case-insensitive).
func ParseMode(s string) (Mode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "linear":
		return ModeLinear, true
	case "array":
		return ModeArray, true
	default:
		return ModeLinear, false
	}
}

// Point is one authored (level, value) pair.
type Point struct {
	Level int
	Value float64
}

// Table is an immutable progression table. Safe for concurrent reads.
type Table struct {
	id     string
	mode   Mode
	points []Point // sorted by Level, levels unique
}

// NewTable builds a table from authored points.
// Points are copied and sorted by level; when a level repeats, the last
// authored value wins.
func NewTable(id string, mode Mode, points []Point) *Table {
	sorted := make([]Point, len(points))
	copy(sorted, points)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Level < sorted[j].Level })

	dedup := sorted[:0]
	for _, p := range sorted {
		if n := len(dedup); n > 0 && dedup[n-1].Level == p.Level {
			dedup[n-1] = p
			continue
		}
		dedup = append(dedup, p)
	}

	return &Table{id: id, mode: mode, points: dedup}
}

func (t *Table) ID() string { return t.id }
func (t *Table) Mode() Mode { return t.mode }
func (t *Table) Len() int   { return len(t.points) }

// Points returns a copy of the sorted control points.
func (t *Table) Points() []Point {
	out := make([]Point, len(t.points))
	copy(out, t.points)
	return out
}

// Resolve returns the table value at level. A nil table resolves to 0.
func (t *Table) Resolve(level int) float64 {
	return t.ResolveObserved(level, nil)
}

// ResolveObserved is Resolve with miss reporting.
// obs may be nil.
func (t *Table) ResolveObserved(level int, obs Observer) float64 {
	if t == nil {
		report(obs, Miss{Level: level, Reason: MissNoTable})
		return 0
	}

	var (
		v      float64
		reason MissReason
	)
	if t.mode == ModeArray {
		v, reason = lookup(t.points, level)
	} else {
		v, reason = interpolate(t.points, level)
	}
	if reason != MissNone {
		report(obs, Miss{TableID: t.id, Level: level, Reason: reason})
	}
	return v
}

// Interpolate applies the linear rule to points sorted by level.
// Levels outside the authored range resolve to 0.
func Interpolate(points []Point, level int) float64 {
	v, _ := interpolate(points, level)
	return v
}

func interpolate(points []Point, level int) (float64, MissReason) {
	if len(points) == 0 {
		return 0, MissEmpty
	}

	// upper: least point with Level >= level
	i := sort.Search(len(points), func(i int) bool { return points[i].Level >= level })
	if i == len(points) {
		return 0, MissAboveRange
	}
	upper := points[i]
	if upper.Level == level {
		return upper.Value, MissNone
	}
	if i == 0 {
		return 0, MissBelowRange
	}
	lower := points[i-1]

	ratio := float64(level-lower.Level) / float64(upper.Level-lower.Level)
	return lower.Value + (upper.Value-lower.Value)*ratio, MissNone
}

func lookup(points []Point, level int) (float64, MissReason) {
	if len(points) == 0 {
		return 0, MissEmpty
	}
	i := sort.Search(len(points), func(i int) bool { return points[i].Level >= level })
	if i < len(points) && points[i].Level == level {
		return points[i].Value, MissNone
	}
	return 0, MissNoPoint
}
