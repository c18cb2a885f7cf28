package stats

import "sync/atomic"

// Group is a fixed set of named, monotonically increasing counters that is
// exposed read-only once registered.
type Group struct {
	name   string
	names  []string
	values []atomic.Uint64
}

// NewGroup creates a group with one counter per name, in order.
func NewGroup(name string, counters ...string) *Group {
	return &Group{
		name:   name,
		names:  append([]string(nil), counters...),
		values: make([]atomic.Uint64, len(counters)),
	}
}

func (g *Group) Name() string { return g.name }

// Len is the number of counters in the group.
func (g *Group) Len() int { return len(g.names) }

// CounterName returns the name of counter i.
func (g *Group) CounterName(i int) string { return g.names[i] }

// Inc adds one to counter i. Out of range indexes are ignored, as is a nil
// group, so callers may leave statistics unwired.
func (g *Group) Inc(i int) {
	g.Add(i, 1)
}

func (g *Group) Add(i int, n uint64) {
	if g == nil || i < 0 || i >= len(g.values) {
		return
	}
	g.values[i].Add(n)
}

// Value returns counter i, or 0 when out of range.
func (g *Group) Value(i int) uint64 {
	if g == nil || i < 0 || i >= len(g.values) {
		return 0
	}
	return g.values[i].Load()
}

// Snapshot returns all counters keyed by name.
func (g *Group) Snapshot() map[string]uint64 {
	out := make(map[string]uint64, len(g.names))
	for i, n := range g.names {
		out[n] = g.values[i].Load()
	}
	return out
}
