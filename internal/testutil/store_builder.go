package testutil

import (
	"github.com/hupe1980/wumpusmesh/belief"
	"github.com/hupe1980/wumpusmesh/core"
)

// StoreBuilder constructs belief stores that have already processed a list of
// percepts. Example:
//
//	s := NewStoreBuilder().Size(4, 4).Percept(Clear(0, 0)).Build()
type StoreBuilder struct {
	width, height int
	id            int
	start         core.Position
	policy        belief.WumpusPolicy
	percepts      []core.Percept
	facts         []core.KnowledgeFact
	holdsGold     bool
}

// NewStoreBuilder creates a builder for a 4x4 store owned by agent 0.
func NewStoreBuilder() *StoreBuilder {
	return &StoreBuilder{width: 4, height: 4, policy: belief.TrustPeer}
}

// Size sets the world dimensions (chainable).
func (b *StoreBuilder) Size(w, h int) *StoreBuilder { b.width, b.height = w, h; return b }

// Agent sets the owning agent id (chainable).
func (b *StoreBuilder) Agent(id int) *StoreBuilder { b.id = id; return b }

// Start sets the initial self position (chainable).
func (b *StoreBuilder) Start(x, y int) *StoreBuilder { b.start = core.Position{X: x, Y: y}; return b }

// Policy sets the wumpus policy (chainable).
func (b *StoreBuilder) Policy(p belief.WumpusPolicy) *StoreBuilder { b.policy = p; return b }

// Percept queues a percept to process, in order (chainable).
func (b *StoreBuilder) Percept(ps ...core.Percept) *StoreBuilder {
	b.percepts = append(b.percepts, ps...)
	return b
}

// Fact queues a hazard-clearing fact applied after all percepts (chainable).
func (b *StoreBuilder) Fact(fs ...core.KnowledgeFact) *StoreBuilder {
	b.facts = append(b.facts, fs...)
	return b
}

// HoldingGold makes the agent hold gold, as if it had grabbed it on the last
// perceived cell (chainable).
func (b *StoreBuilder) HoldingGold() *StoreBuilder { b.holdsGold = true; return b }

// Build creates the store and replays the queued percepts and facts.
func (b *StoreBuilder) Build() *belief.Store {
	s := belief.New(b.width, b.height, b.id, func(o *belief.Options) {
		o.Policy = b.policy
		o.Start = b.start
	})
	for _, p := range b.percepts {
		s.ProcessPercept(p)
	}
	for _, f := range b.facts {
		s.ApplyFact(f)
	}
	if b.holdsGold {
		s.Grab(true)
	}
	return s
}
