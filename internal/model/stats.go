package model

import "github.com/udisondev/lotroev/internal/progression"

// TableLookup resolves a progression table by identifier.
type TableLookup interface {
	ProgressionTable(id string) (*progression.Table, bool)
}

// StatValue is the concrete value of a named stat at some item level.
type StatValue struct {
	Name  string
	Value float64
}

// ResolveStats returns the item's stats at level in authored order.
// A level <= 0 means the item's base level. Stats whose table is missing
// resolve to 0.
func ResolveStats(t *ItemTemplate, level int, tables TableLookup) []StatValue {
	return ResolveStatsObserved(t, level, tables, nil)
}

// ResolveStatsObserved is ResolveStats with miss reporting. obs may be nil.
func ResolveStatsObserved(t *ItemTemplate, level int, tables TableLookup, obs progression.Observer) []StatValue {
	if level <= 0 {
		level = t.BaseLevel
	}

	out := make([]StatValue, 0, len(t.Stats))
	for _, s := range t.Stats {
		out = append(out, StatValue{
			Name:  s.Name,
			Value: resolveStat(s, level, tables, obs),
		})
	}
	return out
}

// StatAt resolves a single named stat. Missing stats resolve to 0, false.
func StatAt(t *ItemTemplate, name string, level int, tables TableLookup) (float64, bool) {
	s, ok := t.Stat(name)
	if !ok {
		return 0, false
	}
	if level <= 0 {
		level = t.BaseLevel
	}
	return resolveStat(s, level, tables, nil), true
}

func resolveStat(s StatRef, level int, tables TableLookup, obs progression.Observer) float64 {
	var tbl *progression.Table
	if tables != nil && s.TableID != "" {
		tbl, _ = tables.ProgressionTable(s.TableID)
	}
	if obs != nil {
		obs = statObserver{stat: s.Name, table: s.TableID, next: obs}
	}
	return tbl.ResolveObserved(level, obs)
}

// statObserver tags misses with the stat that caused them.
type statObserver struct {
	stat  string
	table string
	next  progression.Observer
}

func (o statObserver) ObserveMiss(m progression.Miss) {
	m.Stat = o.stat
	if m.TableID == "" {
		m.TableID = o.table
	}
	o.next.ObserveMiss(m)
}
