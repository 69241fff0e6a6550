package planner

import (
	"github.com/zyedidia/generic/heap"

	"github.com/hupe1980/wumpusmesh/core"
	"github.com/hupe1980/wumpusmesh/grid"
)

// edgeWeight is the uniform cost of one move.
const edgeWeight = 1

type frontierItem struct {
	idx      int
	distance int
}

// ComputeDistances runs single-source Dijkstra from source over the grid's
// adjacency graph. Every cell's working state is reset first; reachable cells
// end with their hop count and a predecessor, unreachable cells keep
// grid.Infinity.
func ComputeDistances(g *grid.Grid, source core.Position) {
	g.ResetPlanning()

	src := g.Index(source.X, source.Y)
	g.Cell(src).Distance = 0

	frontier := heap.New(func(a, b frontierItem) bool { return a.distance < b.distance })
	frontier.Push(frontierItem{idx: src, distance: 0})

	for frontier.Size() > 0 {
		item, _ := frontier.Pop()
		next := g.Cell(item.idx)
		if next.Scanned || item.distance > next.Distance {
			continue // stale entry
		}
		next.Scanned = true

		for _, n := range next.Neighbors() {
			v := g.Cell(n)
			if v.Scanned {
				continue
			}
			if d := next.Distance + edgeWeight; d < v.Distance {
				v.Distance = d
				v.Previous = item.idx
				frontier.Push(frontierItem{idx: n, distance: d})
			}
		}
	}
}
