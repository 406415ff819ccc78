package progression

import "sync/atomic"

// MissReason explains why a lookup fell back to 0.
type MissReason int8

const (
	MissNone       MissReason = iota
	MissNoTable               // stat references no table
	MissEmpty                 // table has no points
	MissNoPoint               // array table has no point at the level
	MissBelowRange            // linear table: level below first point
	MissAboveRange            // linear table: level above last point
)

func (r MissReason) String() string {
	switch r {
	case MissNone:
		return "none"
	case MissNoTable:
		return "no_table"
	case MissEmpty:
		return "empty"
	case MissNoPoint:
		return "no_point"
	case MissBelowRange:
		return "below_range"
	case MissAboveRange:
		return "above_range"
	default:
		return "unknown"
	}
}

// Miss describes a lookup that silently resolved to 0.
type Miss struct {
	TableID string
	Stat    string // set by callers that resolve named stats
	Level   int
	Reason  MissReason
}

// Observer receives misses. Implementations must be safe for concurrent use
// when shared between goroutines.
type Observer interface {
	ObserveMiss(Miss)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Miss)

func (f ObserverFunc) ObserveMiss(m Miss) { f(m) }

func report(obs Observer, m Miss) {
	if obs != nil {
		obs.ObserveMiss(m)
	}
}

// MissCounter counts misses per reason. Zero value is ready to use.
type MissCounter struct {
	counts [MissAboveRange + 1]atomic.Int64
}

func (c *MissCounter) ObserveMiss(m Miss) {
	if m.Reason > MissNone && int(m.Reason) < len(c.counts) {
		c.counts[m.Reason].Add(1)
	}
}

// Count returns the number of misses recorded for reason.
func (c *MissCounter) Count(reason MissReason) int64 {
	if reason <= MissNone || int(reason) >= len(c.counts) {
		return 0
	}
	return c.counts[reason].Load()
}

// Total returns the number of misses across all reasons.
func (c *MissCounter) Total() int64 {
	var n int64
	for i := range c.counts {
		n += c.counts[i].Load()
	}
	return n
}
