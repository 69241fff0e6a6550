package grid

import (
	"fmt"

	"github.com/hupe1980/wumpusmesh/core"
)

// delta enumerates orthogonal neighbors: left, right, down, up.
var delta = [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}

// Grid is a fixed-size arena of cells allocated once per agent.
type Grid struct {
	width, height int
	cells         []Cell
}

// New allocates a width x height grid with every candidacy flag set and no
// planning information.
func New(width, height int) *Grid {
	if width <= 0 || height <= 0 {
		panic(fmt.Sprintf("grid: invalid dimensions %dx%d", width, height))
	}
	g := &Grid{width: width, height: height, cells: make([]Cell, width*height)}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := &g.cells[y*width+x]
			c.X, c.Y = x, y
			c.CanHavePit = true
			c.CanHaveWumpus = true
			c.resetPlanning()
		}
	}
	return g
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

// Len returns the number of cells.
func (g *Grid) Len() int { return len(g.cells) }

// InBounds reports whether (x, y) lies on the grid.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.width && y < g.height
}

// Index returns the arena index of (x, y). Out-of-range coordinates are a
// programming error and panic.
func (g *Grid) Index(x, y int) int {
	if !g.InBounds(x, y) {
		panic(fmt.Sprintf("grid: position (%d,%d) out of range %dx%d", x, y, g.width, g.height))
	}
	return y*g.width + x
}

// At returns the cell at (x, y).
func (g *Grid) At(x, y int) *Cell { return &g.cells[g.Index(x, y)] }

// AtPos returns the cell at p.
func (g *Grid) AtPos(p core.Position) *Cell { return g.At(p.X, p.Y) }

// Cell returns the cell stored at arena index idx.
func (g *Grid) Cell(idx int) *Cell { return &g.cells[idx] }

// Neighbors4 returns the arena indices of the in-grid orthogonal neighbors of
// (x, y) in the fixed order left, right, down, up.
func (g *Grid) Neighbors4(x, y int) []int {
	out := make([]int, 0, 4)
	for _, d := range delta {
		nx, ny := x+d[0], y+d[1]
		if g.InBounds(nx, ny) {
			out = append(out, ny*g.width+nx)
		}
	}
	return out
}

// Connect adds a bidirectional edge between the cells at indices a and b.
// Adding an existing edge is a no-op and edges are never removed.
func (g *Grid) Connect(a, b int) bool {
	ca, cb := &g.cells[a], &g.cells[b]
	added := false
	if !ca.hasNeighbor(b) {
		ca.neighbors = append(ca.neighbors, b)
		added = true
	}
	if !cb.hasNeighbor(a) {
		cb.neighbors = append(cb.neighbors, a)
		added = true
	}
	return added
}

// Edges returns the number of undirected edges in the traversal graph.
func (g *Grid) Edges() int {
	n := 0
	for i := range g.cells {
		n += len(g.cells[i].neighbors)
	}
	return n / 2
}

// ResetPlanning clears the working state of every cell before a
// shortest-path run.
func (g *Grid) ResetPlanning() {
	for i := range g.cells {
		g.cells[i].resetPlanning()
	}
}

// Each calls fn for every cell in index order.
func (g *Grid) Each(fn func(idx int, c *Cell)) {
	for i := range g.cells {
		fn(i, &g.cells[i])
	}
}
