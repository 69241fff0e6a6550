package belief

import (
	"github.com/zyedidia/generic/mapset"

	"github.com/hupe1980/wumpusmesh/grid"
)

// consistency propagates hazard constraints over the whole grid. It is
// deterministic and total.
func (s *Store) consistency() {
	s.clearCandidates()
	s.localizeWumpus()
	s.derive()
	s.connect()
}

// clearCandidates rules hazards out around breeze-free and stench-free visited
// cells. A visited cell itself holds neither hazard. The established wumpus
// cell keeps its flag so that an accepted announcement survives the pass.
func (s *Store) clearCandidates() {
	g := s.grid
	g.Each(func(_ int, c *grid.Cell) {
		if !c.Visited {
			return
		}
		c.CanHavePit = false
		if !c.Wumpus {
			c.CanHaveWumpus = false
		}
		for _, n := range g.Neighbors4(c.X, c.Y) {
			nc := g.Cell(n)
			if !c.Breeze {
				nc.CanHavePit = false
			}
			if !c.Stench && !nc.Wumpus {
				nc.CanHaveWumpus = false
			}
		}
	})
}

// localizeWumpus looks for a cell that is the only common candidate of all its
// stenched neighbors. Once found the location is sticky and every other cell
// is ruled out.
func (s *Store) localizeWumpus() {
	g := s.grid
	if !s.foundWumpus {
		for idx := 0; idx < g.Len() && !s.foundWumpus; idx++ {
			c := g.Cell(idx)
			if !c.CanHaveWumpus {
				continue
			}
			if s.onlyCandidate(idx) {
				s.foundWumpus = true
				s.wumpus = c.Position()
			}
		}
	}
	if !s.foundWumpus {
		return
	}

	wi := g.Index(s.wumpus.X, s.wumpus.Y)
	g.Each(func(idx int, c *grid.Cell) {
		if idx != wi {
			c.CanHaveWumpus = false
		}
	})
}

// onlyCandidate reports whether the intersection of the wumpus candidate sets
// of idx's stenched neighbors is exactly {idx}.
func (s *Store) onlyCandidate(idx int) bool {
	g := s.grid
	c := g.Cell(idx)

	var (
		intersection mapset.Set[int]
		stenched     int
	)
	for _, n := range g.Neighbors4(c.X, c.Y) {
		nc := g.Cell(n)
		if !nc.Stench {
			continue
		}
		candidates := mapset.New[int]()
		for _, m := range g.Neighbors4(nc.X, nc.Y) {
			if g.Cell(m).CanHaveWumpus {
				candidates.Put(m)
			}
		}
		if stenched == 0 {
			intersection = candidates
		} else {
			next := mapset.New[int]()
			intersection.Each(func(k int) {
				if candidates.Has(k) {
					next.Put(k)
				}
			})
			intersection = next
		}
		stenched++
	}
	if stenched == 0 {
		return false
	}
	return intersection.Size() == 1 && intersection.Has(idx)
}

// derive recomputes the safe, pit and wumpus flags and rebuilds the safe list.
func (s *Store) derive() {
	g := s.grid
	s.safe = s.safe[:0]
	g.Each(func(idx int, c *grid.Cell) {
		c.Wumpus = s.foundWumpus && c.X == s.wumpus.X && c.Y == s.wumpus.Y
		c.Safe = !c.Visited && !c.CanHavePit && !c.CanHaveWumpus
		if c.Safe {
			s.safe = append(s.safe, idx)
		}
		if c.CanHavePit && !c.Pit {
			c.Pit = s.onlyPitCandidate(idx)
		}
	})
}

// onlyPitCandidate reports whether some breezy visited neighbor of idx has idx
// as its only remaining pit candidate.
func (s *Store) onlyPitCandidate(idx int) bool {
	g := s.grid
	c := g.Cell(idx)
	for _, n := range g.Neighbors4(c.X, c.Y) {
		b := g.Cell(n)
		if !b.Visited || !b.Breeze {
			continue
		}
		remaining := 0
		for _, m := range g.Neighbors4(b.X, b.Y) {
			if g.Cell(m).CanHavePit {
				remaining++
			}
		}
		if remaining == 1 {
			return true
		}
	}
	return false
}

// connect links every traversable cell to its traversable neighbors. Edges
// accumulate and are never removed.
func (s *Store) connect() {
	g := s.grid
	g.Each(func(idx int, c *grid.Cell) {
		if !c.Traversable() {
			return
		}
		for _, n := range g.Neighbors4(c.X, c.Y) {
			if g.Cell(n).Traversable() {
				g.Connect(idx, n)
			}
		}
	})
}
