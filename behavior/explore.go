package behavior

import (
	"fmt"

	"github.com/hupe1980/wumpusmesh/belief"
	"github.com/hupe1980/wumpusmesh/core"
	"github.com/hupe1980/wumpusmesh/planner"
)

// ExploreStrategy pursues the world-clearing goal. Only one instantiation is
// live per agent, guarded by the pursuing flag of the belief store.
func ExploreStrategy() Strategy {
	return Strategy{
		Name:     "explore",
		Relevant: relevantTo(KindClearWorld),
		Applicable: func(s *belief.Store, _ Trigger) bool {
			return !s.Pursuing()
		},
		Instantiate: func(t Trigger, a Agent) Instantiation {
			a.Beliefs().SetPursuing(true)
			return &exploreInstantiation{trigger: t}
		},
	}
}

type exploreInstantiation struct {
	Lifecycle
	trigger Trigger
	target  *TraverseGoal
}

func (i *exploreInstantiation) ExecuteNextStep(a Agent) bool {
	i.Begin()
	s := a.Beliefs()

	if i.target != nil {
		if !i.target.IsProcessed(s) {
			return true
		}
		ok := i.arrive(a)
		i.target = nil
		return ok
	}

	goal, ok := NextTarget(s)
	if !ok {
		s.SetExplored(true)
		s.SetPursuing(false)
		a.Logger().Info("World explored", "agent", a.ID())
		i.Finish()
		return true
	}
	i.target = &goal
	a.AdoptGoal(goal)
	return true
}

// arrive performs the terminal action of the reached sub-goal.
func (i *exploreInstantiation) arrive(a Agent) bool {
	switch i.target.Target {
	case Chest:
		return a.Drop()
	case Gold:
		if a.Grab() {
			return true
		}
		// Someone else took it; resync the cell.
		a.Perceive()
		return false
	default:
		u := a.Perceive()
		if u.WumpusLocated {
			if w, ok := a.Beliefs().FoundWumpus(); ok {
				a.Broadcast(core.WumpusFact(w.X, w.Y))
			}
		}
		self := a.Beliefs().Self().Position
		a.Broadcast(core.SafeFact(self.X, self.Y))
		a.Beliefs().RefreshDistances()
		return true
	}
}

func (i *exploreInstantiation) Trigger() Trigger { return i.trigger }

func (i *exploreInstantiation) Describe() string {
	if i.target == nil {
		return "bring gold to a chest, or obtain gold, or explore an unexplored safe cell"
	}
	switch i.target.Target {
	case Chest:
		return fmt.Sprintf("wait for reaching (%d,%d) and then drop the gold", i.target.X, i.target.Y)
	case Gold:
		return fmt.Sprintf("wait for reaching (%d,%d) and then grab the gold", i.target.X, i.target.Y)
	default:
		return fmt.Sprintf("wait for reaching (%d,%d) and then perceive the surroundings", i.target.X, i.target.Y)
	}
}

// NextTarget picks the next traversal goal by strict priority: deliver held
// gold to the nearest chest, collect the nearest gold, visit the nearest safe
// cell. Only cells reachable over the traversal graph are considered.
func NextTarget(s *belief.Store) (TraverseGoal, bool) {
	g := s.Grid()
	pick := func(cells []int, kind TargetKind) (TraverseGoal, bool) {
		idx, ok := planner.Nearest(g, cells)
		if !ok {
			return TraverseGoal{}, false
		}
		c := g.Cell(idx)
		return TraverseGoal{X: c.X, Y: c.Y, Target: kind}, true
	}

	if s.Self().HoldsGold {
		if goal, ok := pick(s.ChestCells(), Chest); ok {
			return goal, true
		}
	} else if goal, ok := pick(s.GoldCells(), Gold); ok {
		return goal, true
	}
	return pick(s.SafeCells(), Safe)
}
