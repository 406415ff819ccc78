// Package valuation computes the Essence Value (EV) of items: how many
// reference essences it would take to reproduce an item's stats and sockets.
package valuation

import (
	"log/slog"
	"maps"
	"reflect"
	"sync"

	"github.com/udisondev/lotroev/internal/dps"
	"github.com/udisondev/lotroev/internal/model"
	"github.com/udisondev/lotroev/internal/progression"
)

// Calculator computes EV against a reference basis.
//
// The basis and the vital socket value are built from the catalogue on first
// use and memoized for the lifetime of the Calculator. A Calculator is safe
// for concurrent use.
type Calculator struct {
	catalogue EssenceCatalogue
	policy    Policy
	dpsTables dps.Lookup
	observer  progression.Observer

	preset         bool
	presetBasis    Basis
	presetVitality float64

	once      sync.Once
	basis     Basis
	vitalUnit float64
}

// Option configures a Calculator.
type Option func(*Calculator)

// WithPolicy overrides the default EV policy.
func WithPolicy(p Policy) Option {
	return func(c *Calculator) { c.policy = p }
}

// WithDPSTables enables weapon DPS in Evaluate. A nil lookup disables it.
func WithDPSTables(l dps.Lookup) Option {
	return func(c *Calculator) {
		if isNil(l) {
			l = nil
		}
		c.dpsTables = l
	}
}

// WithObserver reports zero-valued stat resolutions made by Evaluate.
func WithObserver(obs progression.Observer) Option {
	return func(c *Calculator) { c.observer = obs }
}

// WithReference injects a precomputed basis and reference vitality, so the
// catalogue is never queried for them.
func WithReference(basis Basis, referenceVitality float64) Option {
	return func(c *Calculator) {
		c.preset = true
		c.presetBasis = maps.Clone(basis)
		c.presetVitality = referenceVitality
	}
}

// NewCalculator creates a calculator over cat. A nil cat, including a nil
// pointer, yields an empty basis unless WithReference is given.
func NewCalculator(cat EssenceCatalogue, opts ...Option) *Calculator {
	if isNil(cat) {
		cat = nil
	}
	c := &Calculator{
		catalogue: cat,
		policy:    DefaultPolicy(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Policy returns the calculator's policy.
func (c *Calculator) Policy() Policy { return c.policy }

func (c *Calculator) load() {
	c.once.Do(func() {
		if c.preset {
			c.basis = c.presetBasis
			if c.basis == nil {
				c.basis = make(Basis)
			}
			c.vitalUnit = c.vitalSocketValue(c.presetVitality)
			return
		}
		c.basis = LoadBasis(c.catalogue, c.policy)
		c.vitalUnit = c.vitalSocketValue(referenceVitality(c.catalogue, c.policy))
		slog.Debug("reference basis loaded",
			"stats", len(c.basis),
			"reference_level", c.policy.ReferenceLevel,
			"supplemental_level", c.policy.SupplementalLevel,
			"vital_socket_value", c.vitalUnit)
	})
}

// vitalSocketValue is reference vitality over supplemental vitality, or the
// flat socket value when either side is unknown.
func (c *Calculator) vitalSocketValue(refVitality float64) float64 {
	supp, ok := c.basis.Get(c.policy.VitalityStat)
	if !ok || refVitality <= 0 {
		return c.policy.FlatSocketValue
	}
	return refVitality / supp
}

// Basis returns a copy of the reference basis.
func (c *Calculator) Basis() Basis {
	c.load()
	return maps.Clone(c.basis)
}

// VitalSocketValue returns the EV of one vital socket.
func (c *Calculator) VitalSocketValue() float64 {
	c.load()
	return c.vitalUnit
}

// StatEV returns the EV contribution of one stat value.
//
// Armour is converted into physical and tactical mitigation and valued
// against those basis entries. Any other stat is value / basis[stat], or 0
// when the stat has no basis entry.
func (c *Calculator) StatEV(stat string, value float64) float64 {
	c.load()
	p := c.policy

	if stat == p.ArmourStat {
		var ev float64
		if ref, ok := c.basis.Get(p.PhysicalMitigationStat); ok {
			ev += value * p.PhysicalMitigationRatio / ref
		}
		if ref, ok := c.basis.Get(p.TacticalMitigationStat); ok {
			ev += value * p.TacticalMitigationRatio / ref
		}
		return ev
	}

	ref, ok := c.basis.Get(stat)
	if !ok {
		return 0
	}
	return value / ref
}

// SocketEV returns the EV of sockets. Every socket type is worth the flat
// socket value except vital sockets, which are worth VitalSocketValue each.
func (c *Calculator) SocketEV(s model.SocketCounts) float64 {
	flat := float64(s.Basic+s.Primary+s.Cloak+s.Necklace+s.PvP) * c.policy.FlatSocketValue
	if s.Vital <= 0 {
		return flat
	}
	c.load()
	return flat + float64(s.Vital)*c.vitalUnit
}

// EquipmentEV returns the total EV of resolved stats plus sockets.
func (c *Calculator) EquipmentEV(stats []model.StatValue, sockets model.SocketCounts) float64 {
	return c.statsEV(stats) + c.SocketEV(sockets)
}

func (c *Calculator) statsEV(stats []model.StatValue) float64 {
	var total float64
	for _, sv := range stats {
		total += c.StatEV(sv.Name, sv.Value)
	}
	return total
}

// isNil reports whether v is nil or an interface holding a nil pointer.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}
