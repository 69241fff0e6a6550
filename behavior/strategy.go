package behavior

import (
	"github.com/hupe1980/wumpusmesh/belief"
	"github.com/hupe1980/wumpusmesh/core"
	"github.com/hupe1980/wumpusmesh/logging"
)

// Agent is the capability surface strategies act through.
type Agent interface {
	ID() int
	Beliefs() *belief.Store
	Logger() logging.Logger

	// Perceive senses the current cell and updates the beliefs.
	Perceive() belief.Update
	// Move, Grab and Drop report whether the environment accepted the action.
	// Beliefs are only updated for accepted actions.
	Move(d core.Direction) bool
	Grab() bool
	Drop() bool

	// AnnounceSelf tells the environment where the agent entered the world.
	AnnounceSelf()
	// Broadcast sends a fact to every known peer.
	Broadcast(f core.KnowledgeFact)
	// AdoptGoal adds a goal to the goal base unless an equal goal is present.
	AdoptGoal(t Trigger)
}

// State is the lifecycle state of an Instantiation.
type State int

const (
	// Pending instantiations have been created but never stepped.
	Pending State = iota
	// Running instantiations have executed at least one step.
	Running
	// Finished instantiations receive no further ticks.
	Finished
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Running:
		return "running"
	case Finished:
		return "finished"
	default:
		return "unknown"
	}
}

// Lifecycle tracks the state of an instantiation. Embed it.
type Lifecycle struct {
	state State
}

// State returns the current lifecycle state.
func (l *Lifecycle) State() State { return l.state }

// Finished reports whether the instantiation is terminal.
func (l *Lifecycle) Finished() bool { return l.state == Finished }

// Begin moves a pending instantiation to running.
func (l *Lifecycle) Begin() {
	if l.state == Pending {
		l.state = Running
	}
}

// Finish makes the instantiation terminal.
func (l *Lifecycle) Finish() { l.state = Finished }

// Instantiation is the stateful, resumable execution of a strategy for one
// trigger occurrence.
type Instantiation interface {
	// ExecuteNextStep advances by exactly one unit of work and reports
	// whether the step succeeded.
	ExecuteNextStep(a Agent) bool
	State() State
	Finished() bool
	Trigger() Trigger
	Describe() string
}

// Strategy describes a behavior template.
type Strategy struct {
	Name string
	// Relevant is a cheap filter on the trigger kind.
	Relevant func(t Trigger) bool
	// Applicable is the semantic precondition against the beliefs.
	Applicable func(s *belief.Store, t Trigger) bool
	// Instantiate creates a fresh instantiation bound to t.
	Instantiate func(t Trigger, a Agent) Instantiation
}

// Library is an ordered list of strategies.
type Library []Strategy

// Select returns the first strategy that is relevant to t and applicable
// under s.
func (l Library) Select(s *belief.Store, t Trigger) (Strategy, bool) {
	for _, st := range l {
		if st.Relevant != nil && !st.Relevant(t) {
			continue
		}
		if st.Applicable != nil && !st.Applicable(s, t) {
			continue
		}
		return st, true
	}
	return Strategy{}, false
}

// DefaultLibrary returns the standard strategies in registration order.
func DefaultLibrary() Library {
	return Library{
		InitialStrategy(),
		ExploreStrategy(),
		TraverseStrategy(),
		KnowledgeStrategy(),
		AnnounceStrategy(),
	}
}

func relevantTo(kind TriggerKind) func(Trigger) bool {
	return func(t Trigger) bool { return t != nil && t.Kind() == kind }
}
