package data

import (
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/udisondev/lotroev/internal/dps"
	"github.com/udisondev/lotroev/internal/model"
	"github.com/udisondev/lotroev/internal/progression"
)

// Catalogue is the in-memory registry of parsed game data: progression tables,
// DPS tables and item templates. It is filled once at startup (from XML or
// from the database) and is read-only afterwards.
//
// Catalogue implements model.TableLookup, dps.Lookup and the essence queries
// used by valuation.
type Catalogue struct {
	mu           sync.RWMutex
	progressions map[string]*progression.Table
	dpsTables    map[string]*dps.Table
	items        map[int64]*model.ItemTemplate
}

// NewCatalogue returns an empty catalogue.
func NewCatalogue() *Catalogue {
	return &Catalogue{
		progressions: make(map[string]*progression.Table, 1024),
		dpsTables:    make(map[string]*dps.Table, 64),
		items:        make(map[int64]*model.ItemTemplate, 1024),
	}
}

// AddProgressionTables registers tables, replacing any with the same ID.
func (c *Catalogue) AddProgressionTables(tables ...*progression.Table) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, t := range tables {
		c.progressions[t.ID()] = t
	}
}

// AddDPSTables registers DPS tables, replacing any with the same ID.
func (c *Catalogue) AddDPSTables(tables ...*dps.Table) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, t := range tables {
		c.dpsTables[t.ID()] = t
	}
}

// AddItems registers item templates, replacing any with the same key.
func (c *Catalogue) AddItems(items ...*model.ItemTemplate) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, it := range items {
		c.items[it.Key] = it
	}
}

// ProgressionTable returns the progression table by ID.
func (c *Catalogue) ProgressionTable(id string) (*progression.Table, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.progressions[id]
	return t, ok
}

// DPSTable returns the DPS table by ID.
func (c *Catalogue) DPSTable(id string) (*dps.Table, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.dpsTables[id]
	return t, ok
}

// ProgressionTables returns all progression tables ordered by ID.
func (c *Catalogue) ProgressionTables() []*progression.Table {
	c.mu.RLock()
	out := make([]*progression.Table, 0, len(c.progressions))
	for _, t := range c.progressions {
		out = append(out, t)
	}
	c.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// DPSTables returns all DPS tables ordered by ID.
func (c *Catalogue) DPSTables() []*dps.Table {
	c.mu.RLock()
	out := make([]*dps.Table, 0, len(c.dpsTables))
	for _, t := range c.dpsTables {
		out = append(out, t)
	}
	c.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// Item returns the item template by key.
func (c *Catalogue) Item(key int64) (*model.ItemTemplate, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	it, ok := c.items[key]
	return it, ok
}

// Items returns all item templates ordered by key.
func (c *Catalogue) Items() []*model.ItemTemplate {
	return c.filterItems(func(*model.ItemTemplate) bool { return true })
}

// ItemsByName returns items whose name contains substr (case-insensitive), ordered by key.
func (c *Catalogue) ItemsByName(substr string) []*model.ItemTemplate {
	needle := strings.ToLower(substr)
	return c.filterItems(func(it *model.ItemTemplate) bool {
		return strings.Contains(strings.ToLower(it.Name), needle)
	})
}

// EssencesAtLevel returns essences with the given base level, ordered by key.
func (c *Catalogue) EssencesAtLevel(level int) []*model.ItemTemplate {
	return c.filterItems(func(it *model.ItemTemplate) bool {
		return it.IsEssence() && it.BaseLevel == level
	})
}

// EssencesAtLevelNamed returns essences with the given base level whose name
// contains substr (case-sensitive), ordered by key.
func (c *Catalogue) EssencesAtLevelNamed(level int, substr string) []*model.ItemTemplate {
	return c.filterItems(func(it *model.ItemTemplate) bool {
		return it.IsEssence() && it.BaseLevel == level && strings.Contains(it.Name, substr)
	})
}

// Counts returns the number of progression tables, DPS tables and items.
func (c *Catalogue) Counts() (progressions, dpsTables, items int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.progressions), len(c.dpsTables), len(c.items)
}

// LogSummary logs catalogue sizes.
func (c *Catalogue) LogSummary() {
	p, d, i := c.Counts()
	slog.Info("catalogue loaded", "progression_tables", p, "dps_tables", d, "items", i)
}

func (c *Catalogue) filterItems(keep func(*model.ItemTemplate) bool) []*model.ItemTemplate {
	c.mu.RLock()
	out := make([]*model.ItemTemplate, 0, 16)
	for _, it := range c.items {
		if keep(it) {
			out = append(out, it)
		}
	}
	c.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
