package agent

import (
	"errors"
	"slices"

	"github.com/hupe1980/wumpusmesh/behavior"
	"github.com/hupe1980/wumpusmesh/belief"
	"github.com/hupe1980/wumpusmesh/core"
)

var _ behavior.Agent = (*WumpusAgent)(nil)

type actionLogger interface {
	LogAction(action string, x, y int, success bool)
}

func (a *WumpusAgent) logAction(action string, success bool) {
	pos := a.store.Self().Position
	if al, ok := a.logger.(actionLogger); ok {
		al.LogAction(action, pos.X, pos.Y, success)
		return
	}
	if !success {
		a.logger.Warn("Action rejected", "action", action, "x", pos.X, "y", pos.Y)
	}
}

// Perceive senses the current cell and folds the percept into the beliefs.
func (a *WumpusAgent) Perceive() belief.Update {
	p := a.env.Perceive(a.id)
	u := a.store.ProcessPercept(p)
	if u.WumpusLocated {
		w, _ := a.store.FoundWumpus()
		a.logger.Info("Wumpus located", "x", w.X, "y", w.Y)
	}
	if u.NewGold {
		a.logger.Info("Gold discovered", "x", p.X, "y", p.Y)
	}
	return u
}

// Move asks the environment to move the agent. The self model only follows
// an accepted move.
func (a *WumpusAgent) Move(d core.Direction) bool {
	ok := a.env.Move(a.id, d)
	if ok {
		a.store.MoveTo(a.store.Self().Position.Step(d))
	}
	a.logAction("move "+d.String(), ok)
	return ok
}

// Grab picks up gold on the current cell.
func (a *WumpusAgent) Grab() bool {
	ok := a.store.Grab(a.env.Grab(a.id))
	a.logAction("grab", ok)
	return ok
}

// Drop puts held gold down on the current cell.
func (a *WumpusAgent) Drop() bool {
	ok := a.store.Drop(a.env.Drop(a.id))
	a.logAction("drop", ok)
	return ok
}

// AnnounceSelf tells the other agents where this agent entered the world.
func (a *WumpusAgent) AnnounceSelf() {
	pos := a.store.Self().Position
	a.env.AnnounceSelf(a.id, pos.X, pos.Y)
}

// Broadcast queues f for every known peer and flushes the outbox. Sends never
// block the cycle: a message for a full inbox waits in the outbox for a later
// cycle. Other send failures are logged and the message is dropped.
func (a *WumpusAgent) Broadcast(f core.KnowledgeFact) {
	for _, peer := range a.store.Peers() {
		a.outbox = append(a.outbox, core.NewMessage(a.id, peer, f))
	}
	a.flushOutbox()
}

// flushOutbox sends queued messages in order. Once a recipient reports a full
// inbox, its later messages stay queued too so per-pair order holds.
func (a *WumpusAgent) flushOutbox() {
	if len(a.outbox) == 0 {
		return
	}

	var blocked map[int]bool
	kept := a.outbox[:0]
	for _, msg := range a.outbox {
		if blocked[msg.To] {
			kept = append(kept, msg)
			continue
		}
		err := a.send(msg)
		switch {
		case err == nil:
		case errors.Is(err, core.ErrInboxFull):
			if blocked == nil {
				blocked = make(map[int]bool)
			}
			blocked[msg.To] = true
			kept = append(kept, msg)
		default:
			a.logger.Warn("Send failed", "to", msg.To, "fact", msg.Fact.String(), "error", err)
		}
	}
	clear(a.outbox[len(kept):])
	a.outbox = kept
	if len(blocked) > 0 {
		a.logger.Debug("Sends deferred", "queued", len(a.outbox))
	}
}

func (a *WumpusAgent) send(msg core.Message) error {
	if ts, ok := a.transport.(core.TrySender); ok {
		return ts.TrySend(msg)
	}
	return a.transport.Send(a.tickCtx, msg)
}

// AdoptGoal adds t to the goal base unless an equal goal is already present.
func (a *WumpusAgent) AdoptGoal(t behavior.Trigger) {
	if slices.Contains(a.goals, t) {
		return
	}
	a.goals = append(a.goals, t)
	a.logger.Debug("Goal adopted", "goal", t.String())
}
