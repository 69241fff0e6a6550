package agent

import (
	"context"
	"time"

	bt "github.com/joeycumines/go-behaviortree"

	"github.com/hupe1980/wumpusmesh/behavior"
	"github.com/hupe1980/wumpusmesh/core"
)

type deliberationLogger interface {
	LogDeliberation(tick uint64, goals, plans int, dur time.Duration)
}

// Tick runs one deliberation cycle: goal achiever, external events, messages,
// deferred sends, plan executor. Every running plan advances by exactly one step.
func (a *WumpusAgent) Tick(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	start := time.Now()
	a.tickCtx = ctx
	defer func() { a.tickCtx = context.Background() }()

	if _, err := a.cycle().Tick(); err != nil {
		return err
	}
	a.ticks++

	if dl, ok := a.logger.(deliberationLogger); ok {
		dl.LogDeliberation(a.ticks, len(a.goals), len(a.plans), time.Since(start))
	}
	return nil
}

// Node returns the agent as a behavior tree node that runs one deliberation
// cycle per tick.
func (a *WumpusAgent) Node(ctx context.Context) bt.Node {
	return bt.New(func([]bt.Node) (bt.Status, error) {
		if err := a.Tick(ctx); err != nil {
			return bt.Failure, err
		}
		return bt.Success, nil
	})
}

func (a *WumpusAgent) cycle() bt.Node {
	return bt.New(
		bt.Sequence,
		phase(a.achieveGoals),
		phase(a.handleEvents),
		phase(a.handleMessages),
		phase(a.flushOutbox),
		phase(a.executePlans),
	)
}

func phase(fn func()) bt.Node {
	return bt.New(func([]bt.Node) (bt.Status, error) {
		fn()
		return bt.Success, nil
	})
}

// achieveGoals drops satisfied goals and instantiates a strategy for every
// remaining goal that is not already being pursued.
func (a *WumpusAgent) achieveGoals() {
	goals := a.goals[:0]
	for _, g := range a.goals {
		if g.IsProcessed(a.store) {
			a.logger.Debug("Goal achieved", "goal", g.String())
			continue
		}
		goals = append(goals, g)
	}
	a.goals = goals

	for _, g := range a.goals {
		if a.pursued(g) {
			continue
		}
		a.instantiate(g)
	}
}

// handleEvents moves queued environment announcements into the plan base.
func (a *WumpusAgent) handleEvents() {
	for {
		select {
		case ev := <-a.events:
			a.pending = append(a.pending, behavior.AgentAnnounced{AgentAnnouncement: ev})
		default:
			a.dispatchPending()
			return
		}
	}
}

// handleMessages drains the transport inbox. Messages are delivered at least
// once, so ids already seen are dropped.
func (a *WumpusAgent) handleMessages() {
	for {
		select {
		case msg, ok := <-a.inbox:
			if !ok {
				a.dispatchPending()
				return
			}
			a.receive(msg)
		default:
			a.dispatchPending()
			return
		}
	}
}

func (a *WumpusAgent) receive(msg core.Message) {
	if a.seen.Has(msg.ID) {
		a.logger.Debug("Duplicate message dropped", "id", msg.ID, "from", msg.From)
		return
	}
	a.seen.Put(msg.ID)
	a.pending = append(a.pending, behavior.KnowledgeMessage{Message: msg})
}

func (a *WumpusAgent) dispatchPending() {
	for _, t := range a.pending {
		if !a.instantiate(t) {
			a.logger.Warn("No applicable strategy", "trigger", t.String())
		}
	}
	a.pending = a.pending[:0]
}

// executePlans advances every plan by one step and removes finished ones.
// Plans adopted during this phase run from the next cycle on.
func (a *WumpusAgent) executePlans() {
	current := a.plans
	a.plans = nil

	kept := current[:0]
	for _, p := range current {
		if !p.Finished() {
			if !p.ExecuteNextStep(a) {
				a.logger.Debug("Plan step failed", "plan", p.Describe())
			}
		}
		if !p.Finished() {
			kept = append(kept, p)
		}
	}
	a.plans = append(kept, a.plans...)
}

func (a *WumpusAgent) instantiate(t behavior.Trigger) bool {
	st, ok := a.library.Select(a.store, t)
	if !ok {
		return false
	}
	p := st.Instantiate(t, a)
	a.plans = append(a.plans, p)
	a.logger.Debug("Strategy selected", "strategy", st.Name, "trigger", t.String())
	return true
}

func (a *WumpusAgent) pursued(g behavior.Trigger) bool {
	for _, p := range a.plans {
		if !p.Finished() && p.Trigger() == g {
			return true
		}
	}
	return false
}
