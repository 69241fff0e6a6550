package testutil

import "github.com/hupe1980/wumpusmesh/core"

// PerceptBuilder provides a fluent helper for constructing percepts in tests.
// Example:
//
//	p := NewPerceptBuilder().At(1, 1).Stench().Build()
//
// Chain only the senses you need; everything else stays false.
type PerceptBuilder struct {
	p core.Percept
}

// NewPerceptBuilder creates a builder for an empty percept at (0,0).
func NewPerceptBuilder() *PerceptBuilder { return &PerceptBuilder{} }

// At sets the perceived cell (chainable).
func (b *PerceptBuilder) At(x, y int) *PerceptBuilder { b.p.X, b.p.Y = x, y; return b }

// Breeze marks a breeze (chainable).
func (b *PerceptBuilder) Breeze() *PerceptBuilder { b.p.Breeze = true; return b }

// Stench marks a stench (chainable).
func (b *PerceptBuilder) Stench() *PerceptBuilder { b.p.Stench = true; return b }

// Glitter marks gold on the cell (chainable).
func (b *PerceptBuilder) Glitter() *PerceptBuilder { b.p.Glitter = true; return b }

// Chest marks a chest on the cell (chainable).
func (b *PerceptBuilder) Chest() *PerceptBuilder { b.p.Chest = true; return b }

// Agents sets the agents-present bits for the given ids (chainable).
func (b *PerceptBuilder) Agents(ids ...int) *PerceptBuilder {
	for _, id := range ids {
		b.p.Agents |= 1 << uint(id)
	}
	return b
}

// Build returns the percept.
func (b *PerceptBuilder) Build() core.Percept { return b.p }

// Clear returns a breeze-free, stench-free percept at (x, y).
func Clear(x, y int) core.Percept { return core.Percept{X: x, Y: y} }
