package behavior

import (
	"fmt"

	"github.com/hupe1980/wumpusmesh/belief"
	"github.com/hupe1980/wumpusmesh/core"
)

// TriggerKind identifies the variant of a Trigger.
type TriggerKind int

const (
	// KindStartup is the birth of an agent.
	KindStartup TriggerKind = iota
	// KindClearWorld is the world-clearing goal.
	KindClearWorld
	// KindTraverse is a traversal goal.
	KindTraverse
	// KindKnowledge is a knowledge message received from a peer.
	KindKnowledge
	// KindAnnouncement is a peer announcing itself.
	KindAnnouncement
)

// String returns the kind name.
func (k TriggerKind) String() string {
	switch k {
	case KindStartup:
		return "startup"
	case KindClearWorld:
		return "clear-world"
	case KindTraverse:
		return "traverse"
	case KindKnowledge:
		return "knowledge"
	case KindAnnouncement:
		return "announcement"
	default:
		return fmt.Sprintf("TriggerKind(%d)", int(k))
	}
}

// Trigger is an immutable goal or event value. Implementations must be
// comparable so that the goal base can detect duplicates.
type Trigger interface {
	Kind() TriggerKind
	// IsProcessed reports whether the trigger is satisfied by the current
	// beliefs. Events are never processed; they are consumed on selection.
	IsProcessed(s *belief.Store) bool
	String() string
}

// Startup is the birth trigger that selects the initial strategy.
type Startup struct{}

// Kind returns KindStartup.
func (Startup) Kind() TriggerKind { return KindStartup }

// IsProcessed is always false; the trigger is consumed on selection.
func (Startup) IsProcessed(*belief.Store) bool { return false }

// String returns "startup".
func (Startup) String() string { return "startup" }

// ClearWorldGoal is satisfied once no unexplored safe cell, reachable gold or
// pending delivery remains.
type ClearWorldGoal struct{}

// Kind returns KindClearWorld.
func (ClearWorldGoal) Kind() TriggerKind { return KindClearWorld }

// IsProcessed reports whether the beliefs mark the world as explored.
func (ClearWorldGoal) IsProcessed(s *belief.Store) bool { return s.Explored() }

// String returns "clear world".
func (ClearWorldGoal) String() string { return "clear world" }

// TargetKind is what an agent intends to do once a traversal goal is reached.
type TargetKind int

const (
	// Safe targets an unvisited safe cell to perceive.
	Safe TargetKind = iota
	// Gold targets a gold cell to grab.
	Gold
	// Chest targets a chest cell to drop gold into.
	Chest
)

// String returns the upper-case target name.
func (t TargetKind) String() string {
	switch t {
	case Safe:
		return "SAFE"
	case Gold:
		return "GOLD"
	case Chest:
		return "CHEST"
	default:
		return fmt.Sprintf("TargetKind(%d)", int(t))
	}
}

// TraverseGoal is satisfied when the agent stands on (X, Y).
type TraverseGoal struct {
	X, Y   int
	Target TargetKind
}

// Position returns the target cell.
func (g TraverseGoal) Position() core.Position { return core.Position{X: g.X, Y: g.Y} }

// Kind returns KindTraverse.
func (TraverseGoal) Kind() TriggerKind { return KindTraverse }

// IsProcessed reports whether the agent believes it stands on the target.
func (g TraverseGoal) IsProcessed(s *belief.Store) bool { return s.AtLocation(g.Position()) }

// String describes the target cell and what happens there.
func (g TraverseGoal) String() string {
	return fmt.Sprintf("traverse to (%d,%d) for %s", g.X, g.Y, g.Target)
}

// KnowledgeMessage wraps a message received from a peer.
type KnowledgeMessage struct {
	Message core.Message
}

// Kind returns KindKnowledge.
func (KnowledgeMessage) Kind() TriggerKind { return KindKnowledge }

// IsProcessed is always false; messages are consumed on selection.
func (KnowledgeMessage) IsProcessed(*belief.Store) bool { return false }

// String names the sender and the fact.
func (m KnowledgeMessage) String() string {
	return fmt.Sprintf("message from %d: %s", m.Message.From, m.Message.Fact)
}

// AgentAnnounced is the environment event of a peer entering the world.
type AgentAnnounced struct {
	core.AgentAnnouncement
}

// Kind returns KindAnnouncement.
func (AgentAnnounced) Kind() TriggerKind { return KindAnnouncement }

// IsProcessed is always false; announcements are consumed on selection.
func (AgentAnnounced) IsProcessed(*belief.Store) bool { return false }

// String names the announced agent and its start cell.
func (a AgentAnnounced) String() string {
	return fmt.Sprintf("agent %d announced at (%d,%d)", a.Agent, a.X, a.Y)
}
