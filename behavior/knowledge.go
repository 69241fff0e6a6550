package behavior

import (
	"fmt"

	"github.com/hupe1980/wumpusmesh/belief"
)

// KnowledgeStrategy applies a fact received from a peer.
func KnowledgeStrategy() Strategy {
	return Strategy{
		Name:       "knowledge",
		Relevant:   relevantTo(KindKnowledge),
		Applicable: func(*belief.Store, Trigger) bool { return true },
		Instantiate: func(t Trigger, _ Agent) Instantiation {
			return &knowledgeInstantiation{msg: t.(KnowledgeMessage)}
		},
	}
}

type knowledgeInstantiation struct {
	Lifecycle
	msg KnowledgeMessage
}

func (i *knowledgeInstantiation) ExecuteNextStep(a Agent) bool {
	i.Begin()
	defer i.Finish()

	s := a.Beliefs()
	f := i.msg.Message.Fact

	if f.HasWumpus {
		if !s.AnnounceWumpus(f.X, f.Y) {
			a.Logger().Warn("Rejected wumpus announcement", "agent", a.ID(), "from", i.msg.Message.From, "x", f.X, "y", f.Y)
			return false
		}
		return true
	}

	if !s.ApplyFact(f) {
		a.Logger().Warn("Rejected fact contradicting a known pit", "agent", a.ID(), "from", i.msg.Message.From, "x", f.X, "y", f.Y)
		return false
	}
	if s.Explored() {
		// A previously unreachable cell may be known safe now.
		s.SetExplored(false)
		s.SetPursuing(false)
		a.AdoptGoal(ClearWorldGoal{})
	}
	return true
}

func (i *knowledgeInstantiation) Trigger() Trigger { return i.msg }

func (i *knowledgeInstantiation) Describe() string {
	f := i.msg.Message.Fact
	if f.HasWumpus {
		return fmt.Sprintf("add to the beliefs that the wumpus is at (%d,%d)", f.X, f.Y)
	}
	return fmt.Sprintf("add to the beliefs that (%d,%d) is cleared and keep exploring", f.X, f.Y)
}
