package valuation

import (
	"context"
	"fmt"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/udisondev/lotroev/internal/dps"
	"github.com/udisondev/lotroev/internal/model"
)

// StatDPS is the name of the synthetic stat sheet entry carrying weapon DPS.
const StatDPS = "DPS"

// Valuation is the EV breakdown of one item at one item level.
type Valuation struct {
	Key     int64
	Name    string
	Kind    model.ItemKind
	Quality model.Quality
	Level   int

	Stats   []model.StatValue // authored order
	Sockets model.SocketCounts

	StatEV   float64
	SocketEV float64
	EV       float64

	DPS    float64
	HasDPS bool
}

// Sheet returns the stats in authored order followed by a DPS entry for
// weapons whose DPS is known.
func (v Valuation) Sheet() []model.StatValue {
	out := make([]model.StatValue, len(v.Stats), len(v.Stats)+1)
	copy(out, v.Stats)
	if v.HasDPS {
		out = append(out, model.StatValue{Name: StatDPS, Value: v.DPS})
	}
	return out
}

// Evaluate resolves item's stats at level and values them.
// A level <= 0 means the item's base level.
func (c *Calculator) Evaluate(item *model.ItemTemplate, level int) Valuation {
	if level <= 0 {
		level = item.BaseLevel
	}

	stats := model.ResolveStatsObserved(item, level, c.catalogue, c.observer)
	sockets := item.Sockets()

	v := Valuation{
		Key:      item.Key,
		Name:     item.Name,
		Kind:     item.Kind,
		Quality:  item.Quality,
		Level:    level,
		Stats:    stats,
		Sockets:  sockets,
		StatEV:   c.statsEV(stats),
		SocketEV: c.SocketEV(sockets),
	}
	v.EV = v.StatEV + v.SocketEV

	if item.IsWeapon() {
		v.DPS, v.HasDPS = dps.WeaponDPS(item, level, c.dpsTables)
	}
	return v
}

// Rank evaluates items concurrently and returns them sorted by EV
// descending, then by name and key. workers <= 0 means GOMAXPROCS.
func (c *Calculator) Rank(ctx context.Context, items []*model.ItemTemplate, level, workers int) ([]Valuation, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	// build the basis once before fanning out
	c.load()

	out := make([]Valuation, len(items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, it := range items {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return fmt.Errorf("ranking item %d: %w", it.Key, err)
			}
			out[i] = c.Evaluate(it, level)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	SortByEV(out)
	return out, nil
}

// SortByEV sorts valuations by EV descending, then name, then key.
func SortByEV(vs []Valuation) {
	sort.SliceStable(vs, func(i, j int) bool {
		if vs[i].EV != vs[j].EV {
			return vs[i].EV > vs[j].EV
		}
		if vs[i].Name != vs[j].Name {
			return vs[i].Name < vs[j].Name
		}
		return vs[i].Key < vs[j].Key
	})
}
