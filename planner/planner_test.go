package planner

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/wumpusmesh/core"
	"github.com/hupe1980/wumpusmesh/grid"
)

// openCells marks the given cells visited and links orthogonally adjacent
// open cells, the way the belief engine builds the traversal graph.
func openCells(g *grid.Grid, cells ...core.Position) {
	for _, p := range cells {
		g.AtPos(p).Visited = true
	}
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

func openAll(g *grid.Grid) {
	var all []core.Position
	g.Each(func(_ int, c *grid.Cell) { all = append(all, c.Position()) })
	openCells(g, all...)
}

func bfs(g *grid.Grid, source core.Position) []int {
	dist := make([]int, g.Len())
	for i := range dist {
		dist[i] = grid.Infinity
	}
	src := g.Index(source.X, source.Y)
	dist[src] = 0
	queue := []int{src}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, n := range g.Cell(cur).Neighbors() {
			if dist[n] == grid.Infinity {
				dist[n] = dist[cur] + 1
				queue = append(queue, n)
			}
		}
	}
	return dist
}

func TestComputeDistances_MatchesHopCount(t *testing.T) {
	g := grid.New(5, 5)
	var open []core.Position
	g.Each(func(_ int, c *grid.Cell) {
		// a wall at x == 2 with a single gap at y == 4
		if c.X == 2 && c.Y != 4 {
			return
		}
		open = append(open, c.Position())
	})
	openCells(g, open...)

	source := core.Position{X: 0, Y: 0}
	ComputeDistances(g, source)
	want := bfs(g, source)

	g.Each(func(idx int, c *grid.Cell) {
		assert.Equalf(t, want[idx], c.Distance, "distance of %s", c.Position())
	})
	assert.Equal(t, 12, g.At(4, 0).Distance)
	assert.Equal(t, grid.Infinity, g.At(2, 0).Distance)
}

func TestComputeDistances_ResetsPreviousRun(t *testing.T) {
	g := grid.New(3, 1)
	openAll(g)

	ComputeDistances(g, core.Position{X: 0, Y: 0})
	assert.Equal(t, 2, g.At(2, 0).Distance)

	ComputeDistances(g, core.Position{X: 2, Y: 0})
	assert.Equal(t, 0, g.At(2, 0).Distance)
	assert.Equal(t, 2, g.At(0, 0).Distance)
	assert.Equal(t, grid.NoPrevious, g.At(2, 0).Previous)
}

func TestComputeDistances_IsolatedSource(t *testing.T) {
	g := grid.New(3, 3)
	ComputeDistances(g, core.Position{X: 1, Y: 1})

	g.Each(func(_ int, c *grid.Cell) {
		if c.X == 1 && c.Y == 1 {
			assert.Equal(t, 0, c.Distance)
			return
		}
		assert.False(t, c.Reachable())
	})
}

func TestPlanMoves_LastElementIsFirstStep(t *testing.T) {
	g := grid.New(3, 2)
	openCells(g,
		core.Position{X: 0, Y: 0},
		core.Position{X: 1, Y: 0},
		core.Position{X: 2, Y: 0},
		core.Position{X: 2, Y: 1},
	)
	ComputeDistances(g, core.Position{X: 0, Y: 0})

	plan := PlanMoves(g, core.Position{X: 2, Y: 1})
	want := []core.Direction{core.Up, core.Right, core.Right}
	if diff := cmp.Diff(want, plan); diff != "" {
		t.Fatalf("plan mismatch (-want +got):\n%s", diff)
	}

	step, ok := NextMove(g, core.Position{X: 2, Y: 1})
	require.True(t, ok)
	assert.Equal(t, core.Right, step)
}

func TestPlanMoves_Idempotent(t *testing.T) {
	g := grid.New(4, 4)
	openAll(g)
	ComputeDistances(g, core.Position{X: 0, Y: 0})

	target := core.Position{X: 3, Y: 2}
	first := PlanMoves(g, target)
	second := PlanMoves(g, target)

	require.Len(t, first, 5)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("replanning changed the plan:\n%s", diff)
	}

	// replaying the plan from the source must land on the target
	pos := core.Position{X: 0, Y: 0}
	for i := len(first) - 1; i >= 0; i-- {
		pos = pos.Step(first[i])
	}
	assert.Equal(t, target, pos)
}

func TestPlanMoves_EmptyForSourceAndUnreachable(t *testing.T) {
	g := grid.New(3, 1)
	openCells(g, core.Position{X: 0, Y: 0}, core.Position{X: 1, Y: 0})
	ComputeDistances(g, core.Position{X: 0, Y: 0})

	assert.Empty(t, PlanMoves(g, core.Position{X: 0, Y: 0}))
	assert.Empty(t, PlanMoves(g, core.Position{X: 2, Y: 0}))

	_, ok := NextMove(g, core.Position{X: 2, Y: 0})
	assert.False(t, ok)
}

func TestNearest(t *testing.T) {
	g := grid.New(4, 1)
	openCells(g, core.Position{X: 0, Y: 0}, core.Position{X: 1, Y: 0}, core.Position{X: 2, Y: 0})
	ComputeDistances(g, core.Position{X: 1, Y: 0})

	unreachable := g.Index(3, 0)
	left, right := g.Index(0, 0), g.Index(2, 0)

	idx, ok := Nearest(g, []int{unreachable, right, left})
	require.True(t, ok)
	assert.Equal(t, right, idx, "ties resolve to the earliest candidate")

	_, ok = Nearest(g, []int{unreachable})
	assert.False(t, ok)

	_, ok = Nearest(g, nil)
	assert.False(t, ok)
}
