package belief

import (
	"slices"

	"github.com/hupe1980/wumpusmesh/core"
	"github.com/hupe1980/wumpusmesh/grid"
	"github.com/hupe1980/wumpusmesh/planner"
)

// Self is the agent's model of itself.
type Self struct {
	ID        int
	Position  core.Position
	HoldsGold bool
}

// Update summarizes what a percept changed.
type Update struct {
	// WumpusLocated is true when this percept localized the wumpus.
	WumpusLocated bool
	// NewGold and NewChest are true when the cell was registered for the
	// first time.
	NewGold  bool
	NewChest bool
}

// Options configures a Store.
type Options struct {
	// Policy decides how announced wumpus locations are handled.
	Policy WumpusPolicy
	// Start is the agent's initial position until the first percept.
	Start core.Position
}

// Store is one agent's belief base.
type Store struct {
	grid   *grid.Grid
	self   Self
	policy WumpusPolicy

	gold   []int
	chests []int
	safe   []int

	peers []int

	pursuing bool
	explored bool

	foundWumpus bool
	wumpus      core.Position
}

// New creates a store for a width x height world owned by agent id.
func New(width, height, id int, optFns ...func(o *Options)) *Store {
	opts := Options{Policy: TrustPeer}
	for _, fn := range optFns {
		fn(&opts)
	}

	s := &Store{
		grid:   grid.New(width, height),
		self:   Self{ID: id, Position: opts.Start},
		policy: opts.Policy,
	}
	s.grid.Index(opts.Start.X, opts.Start.Y)
	s.RefreshDistances()
	return s
}

// Grid exposes the underlying cell grid. Callers must treat it as read-only.
func (s *Store) Grid() *grid.Grid { return s.grid }

// Width returns the number of columns of the believed world.
func (s *Store) Width() int { return s.grid.Width() }

// Height returns the number of rows of the believed world.
func (s *Store) Height() int { return s.grid.Height() }

// Cell returns the belief record of (x, y). It panics when (x, y) is outside
// the world.
func (s *Store) Cell(x, y int) *grid.Cell { return s.grid.At(x, y) }

// Self returns the agent's self model.
func (s *Store) Self() Self { return s.self }

// Policy returns the configured wumpus policy.
func (s *Store) Policy() WumpusPolicy { return s.policy }

// AtLocation reports whether the agent stands on p.
func (s *Store) AtLocation(p core.Position) bool { return s.self.Position == p }

// SafeCells returns the indices of safe, unvisited cells in grid order.
func (s *Store) SafeCells() []int { return slices.Clone(s.safe) }

// GoldCells returns the indices of known gold cells in discovery order.
func (s *Store) GoldCells() []int { return slices.Clone(s.gold) }

// ChestCells returns the indices of known chest cells in discovery order.
func (s *Store) ChestCells() []int { return slices.Clone(s.chests) }

// FoundWumpus returns the localized wumpus position.
func (s *Store) FoundWumpus() (core.Position, bool) { return s.wumpus, s.foundWumpus }

// Explored reports whether the agent believes nothing is left to do.
func (s *Store) Explored() bool { return s.explored }

// SetExplored records whether the world is believed fully explored.
func (s *Store) SetExplored(b bool) { s.explored = b }

// Pursuing reports whether a world-clearing behavior is live.
func (s *Store) Pursuing() bool { return s.pursuing }

// SetPursuing records whether a world-clearing behavior is live.
func (s *Store) SetPursuing(b bool) { s.pursuing = b }

// Peers returns the known peer ids in the order they were announced.
func (s *Store) Peers() []int { return slices.Clone(s.peers) }

// AddPeer records a peer. It returns false for the agent itself and for peers
// that are already known.
func (s *Store) AddPeer(id int) bool {
	if id == s.self.ID || slices.Contains(s.peers, id) {
		return false
	}
	s.peers = append(s.peers, id)
	return true
}

// ProcessPercept records the percept of the agent's current cell, moves the
// self model onto it and runs a consistency pass followed by a distance
// refresh.
func (s *Store) ProcessPercept(p core.Percept) Update {
	var u Update

	idx := s.grid.Index(p.X, p.Y)
	c := s.grid.Cell(idx)
	c.Visited = true
	if p.Breeze {
		c.Breeze = true
	}
	if p.Stench {
		c.Stench = true
	}

	c.Gold = p.Glitter
	if c.Gold {
		if !slices.Contains(s.gold, idx) {
			s.gold = append(s.gold, idx)
			u.NewGold = true
		}
	} else {
		s.gold = removeIndex(s.gold, idx)
	}

	c.Chest = p.Chest
	if c.Chest && !slices.Contains(s.chests, idx) {
		s.chests = append(s.chests, idx)
		u.NewChest = true
	}

	s.self.Position = p.Position()

	found := s.foundWumpus
	s.consistency()
	u.WumpusLocated = !found && s.foundWumpus

	s.RefreshDistances()
	return u
}

// MoveTo moves the self model after the environment confirmed a move and
// recomputes distances from the new position.
func (s *Store) MoveTo(p core.Position) {
	s.grid.Index(p.X, p.Y)
	s.self.Position = p
	s.RefreshDistances()
}

// ApplyFact applies a hazard-clearing fact received from a peer and reports
// whether it was accepted. Candidacy flags are only ever lowered: a fact
// claiming a hazard is still possible leaves the cell unchanged. A certain pit
// is sticky, so a fact clearing it is rejected as a whole.
func (s *Store) ApplyFact(f core.KnowledgeFact) bool {
	c := s.grid.At(f.X, f.Y)
	if c.Pit && !f.CanHavePit {
		return false
	}
	if !f.CanHaveWumpus {
		c.CanHaveWumpus = false
	}
	if !f.CanHavePit {
		c.CanHavePit = false
	}
	s.consistency()
	s.RefreshDistances()
	return true
}

// AnnounceWumpus applies a wumpus location announced by a peer according to
// the store's policy and reports whether it was accepted.
//
// Under TrustPeer the announced cell is the only place where a candidacy flag
// may be raised again.
func (s *Store) AnnounceWumpus(x, y int) bool {
	pos := core.Position{X: x, Y: y}
	c := s.grid.At(x, y)

	if s.foundWumpus && s.wumpus == pos {
		return true
	}

	if s.policy == TrustSelf {
		if s.foundWumpus || !c.CanHaveWumpus {
			return false
		}
	}

	if s.foundWumpus {
		s.grid.AtPos(s.wumpus).Wumpus = false
	}
	s.foundWumpus = true
	s.wumpus = pos
	c.CanHaveWumpus = true
	c.Wumpus = true

	s.consistency()
	s.RefreshDistances()
	return true
}

// Grab applies the outcome of a grab: holding is whether the agent holds gold
// after the call. Beliefs change only when the gripper actually picked gold up.
func (s *Store) Grab(holding bool) bool {
	if !holding || s.self.HoldsGold {
		return false
	}
	s.self.HoldsGold = true

	idx := s.grid.Index(s.self.Position.X, s.self.Position.Y)
	s.grid.Cell(idx).Gold = false
	s.gold = removeIndex(s.gold, idx)
	return true
}

// Drop applies the outcome of a drop: holding is whether the agent holds gold
// after the call. Gold dropped outside a chest stays on the cell and is
// tracked again.
func (s *Store) Drop(holding bool) bool {
	if holding || !s.self.HoldsGold {
		return false
	}
	s.self.HoldsGold = false

	idx := s.grid.Index(s.self.Position.X, s.self.Position.Y)
	c := s.grid.Cell(idx)
	if !c.Chest {
		c.Gold = true
		if !slices.Contains(s.gold, idx) {
			s.gold = append(s.gold, idx)
		}
	}
	return true
}

// RefreshDistances recomputes shortest paths from the agent's position.
func (s *Store) RefreshDistances() {
	planner.ComputeDistances(s.grid, s.self.Position)
}

// Distance returns the hop count from the agent to (x, y) as of the last
// refresh, or grid.Infinity.
func (s *Store) Distance(x, y int) int { return s.grid.At(x, y).Distance }

func removeIndex(list []int, idx int) []int {
	return slices.DeleteFunc(list, func(v int) bool { return v == idx })
}
