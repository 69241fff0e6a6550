package world

import (
	"strings"
	"sync"

	"github.com/hupe1980/wumpusmesh/core"
	"github.com/hupe1980/wumpusmesh/logging"
)

// Cell content bits.
const (
	Glitter uint16 = 1 << iota
	Breeze
	Stench
	Pit
	Gold
	Chest
	Wumpus
	agentBase
)

func agentBit(id int) uint16 { return agentBase << uint(id) }

type agentState struct {
	pos       core.Position
	holdsGold bool
	dead      bool
	events    chan core.AgentAnnouncement
}

// Options configures a World.
type Options struct {
	// Logger receives rejected actions and agent deaths.
	Logger logging.Logger
}

// World is the ground truth shared by all agents.
type World struct {
	mu        sync.Mutex
	layout    Layout
	cells     []uint16
	agents    []*agentState
	delivered int
	logger    logging.Logger
}

var _ core.Environment = (*World)(nil)

// New loads a layout.
func New(layout Layout, optFns ...func(o *Options)) (*World, error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}

	w := &World{
		layout: layout,
		cells:  make([]uint16, layout.Width*layout.Height),
		logger: opts.Logger,
	}
	for _, p := range layout.Gold {
		w.cells[w.index(p)] |= Gold | Glitter
	}
	for _, p := range layout.Chests {
		w.cells[w.index(p)] |= Chest
	}
	for _, p := range layout.Pits {
		w.place(p, Pit, Breeze)
	}
	if layout.Wumpus != nil {
		w.place(*layout.Wumpus, Wumpus, Stench)
	}
	return w, nil
}

func (w *World) index(p core.Position) int { return p.Y*w.layout.Width + p.X }

// place puts obj on p and sign on every orthogonal neighbor.
func (w *World) place(p core.Position, obj, sign uint16) {
	w.cells[w.index(p)] |= obj
	for _, d := range core.Directions {
		n := p.Step(d)
		if w.layout.InBounds(n) {
			w.cells[w.index(n)] |= sign
		}
	}
}

func (w *World) agent(id int) *agentState {
	if id < 0 || id >= len(w.agents) {
		return nil
	}
	return w.agents[id]
}

// Width returns the number of columns.
func (w *World) Width() int { return w.layout.Width }

// Height returns the number of rows.
func (w *World) Height() int { return w.layout.Height }

// Capacity returns the number of agent slots.
func (w *World) Capacity() int { return len(w.layout.Agents) }

// RegisterAgent places the next agent on its start cell.
func (w *World) RegisterAgent() (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	id := len(w.agents)
	if id >= len(w.layout.Agents) {
		return -1, core.ErrEnvironmentFull
	}
	start := w.layout.Agents[id]
	w.agents = append(w.agents, &agentState{
		pos:    start,
		events: make(chan core.AgentAnnouncement, 2*MaxAgents),
	})
	w.cells[w.index(start)] |= agentBit(id)
	return id, nil
}

// Perceive returns what agent id senses on its cell. Dead and unknown agents
// sense nothing.
func (w *World) Perceive(id int) core.Percept {
	w.mu.Lock()
	defer w.mu.Unlock()

	a := w.agent(id)
	if a == nil {
		return core.Percept{}
	}
	p := core.Percept{X: a.pos.X, Y: a.pos.Y}
	if a.dead {
		return p
	}
	c := w.cells[w.index(a.pos)]
	p.Breeze = c&Breeze != 0
	p.Stench = c&Stench != 0
	p.Glitter = c&Glitter != 0
	p.Chest = c&Chest != 0
	p.Agents = uint8(c >> 7)
	return p
}

// Move moves agent id one cell. Moves off the grid and moves of dead agents
// are rejected. Entering a pit or the wumpus cell kills the agent.
func (w *World) Move(id int, d core.Direction) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	a := w.agent(id)
	if a == nil || a.dead {
		return false
	}
	next := a.pos.Step(d)
	if !w.layout.InBounds(next) {
		w.logger.Debug("Move rejected", "agent", id, "direction", d.String(), "target", next.String())
		return false
	}

	w.cells[w.index(a.pos)] &^= agentBit(id)
	w.cells[w.index(next)] |= agentBit(id)
	a.pos = next

	if w.cells[w.index(next)]&(Pit|Wumpus) != 0 {
		a.dead = true
		w.logger.Warn("Agent died", "agent", id, "x", next.X, "y", next.Y)
	}
	return true
}

// Grab picks up gold from the agent's cell and returns whether the agent
// holds gold afterwards.
func (w *World) Grab(id int) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	a := w.agent(id)
	if a == nil {
		return false
	}
	if a.dead || a.holdsGold {
		return a.holdsGold
	}
	i := w.index(a.pos)
	if w.cells[i]&Gold == 0 {
		return false
	}
	w.cells[i] &^= Gold | Glitter
	a.holdsGold = true
	return true
}

// Drop puts held gold down and returns whether the agent still holds gold.
// Gold dropped in a chest is delivered; dropping onto gold is rejected.
func (w *World) Drop(id int) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	a := w.agent(id)
	if a == nil {
		return false
	}
	if a.dead || !a.holdsGold {
		return a.holdsGold
	}
	i := w.index(a.pos)
	switch {
	case w.cells[i]&Chest != 0:
		w.delivered++
	case w.cells[i]&Gold != 0:
		return true
	default:
		w.cells[i] |= Gold | Glitter
	}
	a.holdsGold = false
	return false
}

// AnnounceSelf notifies every other registered agent.
func (w *World) AnnounceSelf(id, x, y int) {
	w.mu.Lock()
	defer w.mu.Unlock()

	ev := core.AgentAnnouncement{Agent: id, X: x, Y: y}
	for other, a := range w.agents {
		if other == id {
			continue
		}
		select {
		case a.events <- ev:
		default:
			w.logger.Warn("Announcement dropped", "agent", id, "to", other)
		}
	}
}

// Events returns the announcement stream of agent id, or nil for unknown ids.
func (w *World) Events(id int) <-chan core.AgentAnnouncement {
	w.mu.Lock()
	defer w.mu.Unlock()
	if a := w.agent(id); a != nil {
		return a.events
	}
	return nil
}

// Position returns where agent id stands.
func (w *World) Position(id int) (core.Position, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if a := w.agent(id); a != nil {
		return a.pos, true
	}
	return core.Position{}, false
}

// Dead reports whether agent id entered a hazard.
func (w *World) Dead(id int) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	a := w.agent(id)
	return a != nil && a.dead
}

// HoldsGold reports whether agent id carries gold.
func (w *World) HoldsGold(id int) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	a := w.agent(id)
	return a != nil && a.holdsGold
}

// Hazard reports whether p holds a pit or the wumpus.
func (w *World) Hazard(p core.Position) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.layout.InBounds(p) && w.cells[w.index(p)]&(Pit|Wumpus) != 0
}

// Delivered returns the number of gold pieces dropped into chests.
func (w *World) Delivered() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.delivered
}

// GoldLeft returns the number of gold pieces lying on the ground or carried.
func (w *World) GoldLeft() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	n := 0
	for _, c := range w.cells {
		if c&Gold != 0 {
			n++
		}
	}
	for _, a := range w.agents {
		if a.holdsGold {
			n++
		}
	}
	return n
}

// String renders the ground truth with the highest row first:
//
//	0-3 agent   W wumpus   P pit   G gold   C chest   . empty
func (w *World) String() string {
	w.mu.Lock()
	defer w.mu.Unlock()

	var b strings.Builder
	for y := w.layout.Height - 1; y >= 0; y-- {
		for x := 0; x < w.layout.Width; x++ {
			b.WriteByte(w.symbol(w.cells[y*w.layout.Width+x]))
		}
		if y > 0 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func (w *World) symbol(c uint16) byte {
	for id := range w.agents {
		if c&agentBit(id) != 0 {
			return byte('0' + id)
		}
	}
	switch {
	case c&Wumpus != 0:
		return 'W'
	case c&Pit != 0:
		return 'P'
	case c&Gold != 0:
		return 'G'
	case c&Chest != 0:
		return 'C'
	default:
		return '.'
	}
}
