package belief

import (
	"strings"

	"github.com/hupe1980/wumpusmesh/core"
	"github.com/hupe1980/wumpusmesh/grid"
)

// CellView is a read-only copy of one cell's belief flags.
type CellView struct {
	X, Y      int
	Visited   bool
	Breeze    bool
	Stench    bool
	Gold      bool
	Chest     bool
	Safe      bool
	Pit       bool
	Wumpus    bool
	Reachable bool
}

// Snapshot is a point-in-time copy of a Store, safe to hand to other
// goroutines for logging and rendering.
type Snapshot struct {
	Width, Height int
	Self          Self
	Cells         []CellView
	Explored      bool
	Wumpus        *core.Position
	Peers         []int
}

// Snapshot copies the current beliefs.
func (s *Store) Snapshot() Snapshot {
	snap := Snapshot{
		Width:    s.grid.Width(),
		Height:   s.grid.Height(),
		Self:     s.self,
		Cells:    make([]CellView, 0, s.grid.Len()),
		Explored: s.explored,
		Peers:    s.Peers(),
	}
	if s.foundWumpus {
		w := s.wumpus
		snap.Wumpus = &w
	}
	s.grid.Each(func(_ int, c *grid.Cell) {
		snap.Cells = append(snap.Cells, CellView{
			X: c.X, Y: c.Y,
			Visited:   c.Visited,
			Breeze:    c.Breeze,
			Stench:    c.Stench,
			Gold:      c.Gold,
			Chest:     c.Chest,
			Safe:      c.Safe,
			Pit:       c.Pit,
			Wumpus:    c.Wumpus,
			Reachable: c.Reachable(),
		})
	})
	return snap
}

// At returns the view of (x, y).
func (s Snapshot) At(x, y int) CellView { return s.Cells[y*s.Width+x] }

// String renders the snapshot as a grid with the highest row first:
//
//	A agent   W wumpus   P pit   G gold   C chest
//	s safe    . visited  ? unknown
func (s Snapshot) String() string {
	var b strings.Builder
	for y := s.Height - 1; y >= 0; y-- {
		for x := 0; x < s.Width; x++ {
			b.WriteByte(s.symbol(x, y))
		}
		if y > 0 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func (s Snapshot) symbol(x, y int) byte {
	c := s.At(x, y)
	switch {
	case s.Self.Position.X == x && s.Self.Position.Y == y:
		return 'A'
	case c.Wumpus:
		return 'W'
	case c.Pit:
		return 'P'
	case c.Gold:
		return 'G'
	case c.Chest:
		return 'C'
	case c.Safe:
		return 's'
	case c.Visited:
		return '.'
	default:
		return '?'
	}
}
