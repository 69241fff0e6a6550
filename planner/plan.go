package planner

import (
	"github.com/hupe1980/wumpusmesh/core"
	"github.com/hupe1980/wumpusmesh/grid"
)

// PlanMoves reconstructs a move list from the source of the last
// ComputeDistances run to target by stepping from the target towards the
// source, always to the neighbor with the smallest finite distance strictly
// below the current one.
//
// The list is ordered target-first: its LAST element is the first physical
// step. It is empty when the target is the source or unreachable.
func PlanMoves(g *grid.Grid, target core.Position) []core.Direction {
	cur := g.AtPos(target)
	if cur.Distance == 0 || cur.Distance == grid.Infinity {
		return nil
	}

	plan := make([]core.Direction, 0, cur.Distance)
	for cur.Distance != 0 {
		from := closerNeighbor(g, cur)
		if from == nil {
			// Only possible if the graph changed after ComputeDistances.
			return nil
		}
		d, ok := core.DirectionBetween(from.Position(), cur.Position())
		if !ok {
			panic("planner: traversal graph connects non-adjacent cells " +
				from.Position().String() + " and " + cur.Position().String())
		}
		plan = append(plan, d)
		cur = from
	}
	return plan
}

// NextMove returns the first physical step towards target, recomputed from the
// current planning state.
func NextMove(g *grid.Grid, target core.Position) (core.Direction, bool) {
	plan := PlanMoves(g, target)
	if len(plan) == 0 {
		return 0, false
	}
	return plan[len(plan)-1], true
}

// Nearest returns the candidate index with the smallest finite distance.
// Among equal distances the earliest candidate wins.
func Nearest(g *grid.Grid, candidates []int) (int, bool) {
	best, found := 0, false
	for _, idx := range candidates {
		c := g.Cell(idx)
		if !c.Reachable() {
			continue
		}
		if !found || c.Distance < g.Cell(best).Distance {
			best, found = idx, true
		}
	}
	return best, found
}

func closerNeighbor(g *grid.Grid, cur *grid.Cell) *grid.Cell {
	var best *grid.Cell
	for _, n := range cur.Neighbors() {
		c := g.Cell(n)
		if c.Distance == grid.Infinity || c.Distance >= cur.Distance {
			continue
		}
		if best == nil || c.Distance < best.Distance {
			best = c
		}
	}
	return best
}
