package behavior

import (
	"fmt"

	"github.com/hupe1980/wumpusmesh/belief"
	"github.com/hupe1980/wumpusmesh/planner"
)

// TraverseStrategy moves one step towards the target of a traversal goal. It
// is applicable only when the target is reachable and the beliefs still agree
// with what the goal expects to find there.
func TraverseStrategy() Strategy {
	return Strategy{
		Name:       "traverse",
		Relevant:   relevantTo(KindTraverse),
		Applicable: traversable,
		Instantiate: func(t Trigger, _ Agent) Instantiation {
			return &traverseInstantiation{goal: t.(TraverseGoal)}
		},
	}
}

func traversable(s *belief.Store, t Trigger) bool {
	goal, ok := t.(TraverseGoal)
	if !ok {
		return false
	}
	c := s.Cell(goal.X, goal.Y)
	if !c.Reachable() {
		return false
	}
	switch goal.Target {
	case Safe:
		return c.Safe
	case Gold:
		return c.Gold
	case Chest:
		return c.Chest
	default:
		return false
	}
}

type traverseInstantiation struct {
	Lifecycle
	goal TraverseGoal
}

// ExecuteNextStep replans from scratch and takes only the first move. The
// goal stays in the goal base, so the next tick instantiates a fresh step.
func (i *traverseInstantiation) ExecuteNextStep(a Agent) bool {
	i.Begin()
	defer i.Finish()

	d, ok := planner.NextMove(a.Beliefs().Grid(), i.goal.Position())
	if !ok {
		return false
	}
	return a.Move(d)
}

func (i *traverseInstantiation) Trigger() Trigger { return i.goal }

func (i *traverseInstantiation) Describe() string {
	return fmt.Sprintf("take the next move towards (%d,%d)", i.goal.X, i.goal.Y)
}
