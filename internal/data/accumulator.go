package data

import (
	"maps"
	"sort"
)

// Context is the data a template is rendered with.
type Context map[string]any

// Clone returns a shallow copy of c.
func (c Context) Clone() Context {
	return maps.Clone(c)
}

// Accumulator owns the run's data context. It is not safe for concurrent use;
// tasks run one at a time.
type Accumulator struct {
	ctx Context
}

// NewAccumulator returns an empty accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{ctx: Context{}}
}

// Merge adds partial's top-level keys, replacing existing ones.
func (a *Accumulator) Merge(partial map[string]any) {
	maps.Copy(a.ctx, partial)
}

// MergeIf merges partial only when cond is true. The condition is evaluated
// once by the caller, at merge time.
func (a *Accumulator) MergeIf(cond bool, partial map[string]any) {
	if cond {
		a.Merge(partial)
	}
}

// Set assigns a single key.
func (a *Accumulator) Set(key string, value any) {
	a.ctx[key] = value
}

// Get returns the value stored under key.
func (a *Accumulator) Get(key string) (any, bool) {
	v, ok := a.ctx[key]
	return v, ok
}

// Keys returns the sorted top-level keys.
func (a *Accumulator) Keys() []string {
	keys := make([]string, 0, len(a.ctx))
	for k := range a.ctx {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Snapshot returns a copy of the context for rendering. Later merges do not
// affect a snapshot already taken.
func (a *Accumulator) Snapshot() Context {
	return a.ctx.Clone()
}
