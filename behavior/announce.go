package behavior

import (
	"fmt"

	"github.com/hupe1980/wumpusmesh/belief"
	"github.com/hupe1980/wumpusmesh/core"
)

// AnnounceStrategy registers a peer that entered the world. Its start cell is
// known to be hazard free.
func AnnounceStrategy() Strategy {
	return Strategy{
		Name:       "announce",
		Relevant:   relevantTo(KindAnnouncement),
		Applicable: func(*belief.Store, Trigger) bool { return true },
		Instantiate: func(t Trigger, _ Agent) Instantiation {
			return &announceInstantiation{ev: t.(AgentAnnounced)}
		},
	}
}

type announceInstantiation struct {
	Lifecycle
	ev AgentAnnounced
}

func (i *announceInstantiation) ExecuteNextStep(a Agent) bool {
	i.Begin()
	defer i.Finish()

	s := a.Beliefs()
	if s.AddPeer(i.ev.Agent) {
		a.Logger().Debug("Peer registered", "agent", a.ID(), "peer", i.ev.Agent)
	}
	s.ApplyFact(core.SafeFact(i.ev.X, i.ev.Y))
	return true
}

func (i *announceInstantiation) Trigger() Trigger { return i.ev }

func (i *announceInstantiation) Describe() string {
	return fmt.Sprintf("add to the beliefs that agent %d was spawned at (%d,%d)", i.ev.Agent, i.ev.X, i.ev.Y)
}
