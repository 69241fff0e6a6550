package core

import "fmt"

// Position is a grid coordinate. X grows to the right, Y grows upwards.
type Position struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// String renders the position as "(x,y)".
func (p Position) String() string { return fmt.Sprintf("(%d,%d)", p.X, p.Y) }

// Step returns the position one move away in direction d.
func (p Position) Step(d Direction) Position {
	dx, dy := d.Delta()
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// Direction is a single orthogonal move.
type Direction int

const (
	// Up moves to y+1.
	Up Direction = iota
	// Down moves to y-1.
	Down
	// Left moves to x-1.
	Left
	// Right moves to x+1.
	Right
)

// Directions lists every direction in declaration order.
var Directions = []Direction{Up, Down, Left, Right}

// Delta returns the coordinate change produced by the direction.
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case Up:
		return 0, 1
	case Down:
		return 0, -1
	case Left:
		return -1, 0
	case Right:
		return 1, 0
	default:
		return 0, 0
	}
}

// String returns the upper-case name of the direction.
func (d Direction) String() string {
	switch d {
	case Up:
		return "UP"
	case Down:
		return "DOWN"
	case Left:
		return "LEFT"
	case Right:
		return "RIGHT"
	default:
		return "UNKNOWN"
	}
}

// DirectionBetween translates a unit coordinate delta from one cell to an
// orthogonal neighbor into a direction. ok is false when the cells are not
// orthogonally adjacent.
func DirectionBetween(from, to Position) (d Direction, ok bool) {
	switch {
	case to.X == from.X-1 && to.Y == from.Y:
		return Left, true
	case to.X == from.X+1 && to.Y == from.Y:
		return Right, true
	case to.X == from.X && to.Y == from.Y-1:
		return Down, true
	case to.X == from.X && to.Y == from.Y+1:
		return Up, true
	default:
		return 0, false
	}
}

// Percept is what an agent senses on the cell it currently occupies.
// Agents is a bitset: bit i is set when agent i stands on the same cell.
type Percept struct {
	Breeze  bool
	Stench  bool
	Glitter bool
	Chest   bool
	X, Y    int
	Agents  uint8
}

// Position returns the percept's cell.
func (p Percept) Position() Position { return Position{X: p.X, Y: p.Y} }

// HasAgent reports whether agent id is present on the perceived cell.
func (p Percept) HasAgent(id int) bool {
	if id < 0 || id > 7 {
		return false
	}
	return p.Agents&(1<<uint(id)) != 0
}
