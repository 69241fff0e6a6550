package grid

import "github.com/hupe1980/wumpusmesh/core"

// Infinity marks a cell that the last shortest-path run could not reach.
const Infinity = int(^uint(0) >> 1)

// NoPrevious is the predecessor of the source and of unreachable cells.
const NoPrevious = -1

// Cell is one grid position's belief record.
//
// Observed facts (Breeze, Stench) only ever become true; Gold and Chest toggle
// as gold is grabbed and dropped. CanHavePit and CanHaveWumpus start true and
// are cleared by evidence. Safe, Pit and Wumpus are derived by the belief
// engine's consistency pass.
type Cell struct {
	X, Y int

	Breeze  bool
	Stench  bool
	Gold    bool
	Chest   bool
	Visited bool

	CanHavePit    bool
	CanHaveWumpus bool

	Safe   bool
	Pit    bool
	Wumpus bool

	// Planning working state, reset by every shortest-path run.
	Distance int
	Scanned  bool
	Previous int

	neighbors []int
}

// Position returns the cell's coordinate.
func (c *Cell) Position() core.Position { return core.Position{X: c.X, Y: c.Y} }

// Traversable reports whether the cell may be part of the traversal graph.
func (c *Cell) Traversable() bool { return c.Visited || c.Safe }

// Reachable reports whether the last shortest-path run reached the cell.
func (c *Cell) Reachable() bool { return c.Distance != Infinity }

// Neighbors returns the indices of the cell's traversable neighbors. The
// returned slice must not be modified.
func (c *Cell) Neighbors() []int { return c.neighbors }

func (c *Cell) hasNeighbor(idx int) bool {
	for _, n := range c.neighbors {
		if n == idx {
			return true
		}
	}
	return false
}

func (c *Cell) resetPlanning() {
	c.Distance = Infinity
	c.Scanned = false
	c.Previous = NoPrevious
}
