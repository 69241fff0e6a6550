package world

import (
	"errors"
	"fmt"

	"github.com/hupe1980/wumpusmesh/core"
)

// MaxAgents is the number of agent slots a world offers at most.
const MaxAgents = 4

// ErrInvalidLayout is returned for layouts that cannot be loaded.
var ErrInvalidLayout = errors.New("invalid layout")

// Layout describes the initial world: its size, the start cell of every agent
// slot and the positions of hazards and objects.
type Layout struct {
	Width  int             `yaml:"width" json:"width"`
	Height int             `yaml:"height" json:"height"`
	Agents []core.Position `yaml:"agents" json:"agents"`
	Wumpus *core.Position  `yaml:"wumpus,omitempty" json:"wumpus,omitempty"`
	Pits   []core.Position `yaml:"pits,omitempty" json:"pits,omitempty"`
	Gold   []core.Position `yaml:"gold,omitempty" json:"gold,omitempty"`
	Chests []core.Position `yaml:"chests,omitempty" json:"chests,omitempty"`
}

// Standard returns the solvable 4x4 world: agent 0 at (0,0), the wumpus at
// (0,2), pits at (2,0), (2,2) and (3,3), a chest at (0,0) and gold at (1,2).
func Standard() Layout {
	return Layout{
		Width:  4,
		Height: 4,
		Agents: []core.Position{{X: 0, Y: 0}},
		Wumpus: &core.Position{X: 0, Y: 2},
		Pits:   []core.Position{{X: 2, Y: 0}, {X: 2, Y: 2}, {X: 3, Y: 3}},
		Gold:   []core.Position{{X: 1, Y: 2}},
		Chests: []core.Position{{X: 0, Y: 0}},
	}
}

// InBounds reports whether p lies inside the layout.
func (l Layout) InBounds(p core.Position) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < l.Width && p.Y < l.Height
}

// Validate reports the first problem of the layout.
func (l Layout) Validate() error {
	if l.Width <= 0 || l.Height <= 0 {
		return fmt.Errorf("%w: dimensions %dx%d", ErrInvalidLayout, l.Width, l.Height)
	}
	if len(l.Agents) == 0 {
		return fmt.Errorf("%w: no agent start cells", ErrInvalidLayout)
	}
	if len(l.Agents) > MaxAgents {
		return fmt.Errorf("%w: %d agent start cells, at most %d", ErrInvalidLayout, len(l.Agents), MaxAgents)
	}

	hazards := make(map[core.Position]string)
	if l.Wumpus != nil {
		if !l.InBounds(*l.Wumpus) {
			return fmt.Errorf("%w: wumpus at %s outside the world", ErrInvalidLayout, *l.Wumpus)
		}
		hazards[*l.Wumpus] = "wumpus"
	}
	for _, p := range l.Pits {
		if !l.InBounds(p) {
			return fmt.Errorf("%w: pit at %s outside the world", ErrInvalidLayout, p)
		}
		hazards[p] = "pit"
	}
	for i, p := range l.Agents {
		if !l.InBounds(p) {
			return fmt.Errorf("%w: agent %d starts at %s outside the world", ErrInvalidLayout, i, p)
		}
		if h, ok := hazards[p]; ok {
			return fmt.Errorf("%w: agent %d starts on a %s at %s", ErrInvalidLayout, i, h, p)
		}
	}
	for _, p := range l.Gold {
		if !l.InBounds(p) {
			return fmt.Errorf("%w: gold at %s outside the world", ErrInvalidLayout, p)
		}
	}
	for _, p := range l.Chests {
		if !l.InBounds(p) {
			return fmt.Errorf("%w: chest at %s outside the world", ErrInvalidLayout, p)
		}
	}
	return nil
}
