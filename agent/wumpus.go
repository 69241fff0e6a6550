package agent

import (
	"context"
	"fmt"
	"sync"

	"github.com/zyedidia/generic/mapset"

	"github.com/hupe1980/wumpusmesh/behavior"
	"github.com/hupe1980/wumpusmesh/belief"
	"github.com/hupe1980/wumpusmesh/core"
	"github.com/hupe1980/wumpusmesh/logging"
)

// Options configures a WumpusAgent.
type Options struct {
	// Logger receives deliberation and action logs. Defaults to NoOpLogger.
	Logger logging.Logger
	// Library is the ordered strategy list. Defaults to behavior.DefaultLibrary.
	Library behavior.Library
	// WumpusPolicy decides how announced wumpus locations are handled.
	WumpusPolicy belief.WumpusPolicy
}

// WumpusAgent is one autonomous explorer. It owns its belief store, goal base
// and plan base and advances by one deliberation cycle per Tick.
//
// Tick must not be called concurrently with itself. The query methods (Idle,
// Snapshot, Ticks) are safe to call from other goroutines.
type WumpusAgent struct {
	id        int
	env       core.Environment
	transport core.Transport
	inbox     <-chan core.Message
	events    <-chan core.AgentAnnouncement
	library   behavior.Library
	logger    logging.Logger

	mu      sync.Mutex
	store   *belief.Store
	goals   []behavior.Trigger
	pending []behavior.Trigger // drained events and messages awaiting a strategy
	plans   []behavior.Instantiation
	outbox  []core.Message // sends deferred by a full recipient inbox
	seen    mapset.Set[string]
	ticks   uint64

	// tickCtx is the context of the cycle in progress; strategies send
	// messages through it.
	tickCtx context.Context
}

// New registers a new agent with the environment and the transport. It
// returns an error wrapping core.ErrEnvironmentFull when no slot is left.
func New(env core.Environment, tr core.Transport, optFns ...func(o *Options)) (*WumpusAgent, error) {
	opts := Options{
		Logger:       logging.NoOpLogger{},
		Library:      behavior.DefaultLibrary(),
		WumpusPolicy: belief.TrustPeer,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	id, err := env.RegisterAgent()
	if err != nil {
		return nil, fmt.Errorf("register agent: %w", err)
	}

	inbox, err := tr.Register(id)
	if err != nil {
		return nil, fmt.Errorf("register inbox for agent %d: %w", id, err)
	}

	logger := opts.Logger
	if ml, ok := logger.(*logging.MeshLogger); ok {
		logger = ml.WithComponent("agent").WithAgent(id)
	}

	a := &WumpusAgent{
		id:        id,
		env:       env,
		transport: tr,
		inbox:     inbox,
		events:    env.Events(id),
		library:   opts.Library,
		logger:    logger,
		store: belief.New(env.Width(), env.Height(), id, func(o *belief.Options) {
			o.Policy = opts.WumpusPolicy
		}),
		seen:    mapset.New[string](),
		tickCtx: context.Background(),
	}

	st, ok := a.library.Select(a.store, behavior.Startup{})
	if !ok {
		return nil, fmt.Errorf("agent %d: no strategy for %s", id, behavior.Startup{})
	}
	a.plans = append(a.plans, st.Instantiate(behavior.Startup{}, a))

	return a, nil
}

// ID returns the environment-assigned agent id.
func (a *WumpusAgent) ID() int { return a.id }

// Beliefs returns the agent's belief store. It must only be used from within
// a deliberation cycle.
func (a *WumpusAgent) Beliefs() *belief.Store { return a.store }

// Logger returns the agent's logger.
func (a *WumpusAgent) Logger() logging.Logger { return a.logger }

// Idle reports whether the agent has no goals, queued triggers, running
// plans or deferred sends.
func (a *WumpusAgent) Idle() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.goals) == 0 && len(a.pending) == 0 && len(a.plans) == 0 &&
		len(a.outbox) == 0 && len(a.events) == 0 && len(a.inbox) == 0
}

// Ticks returns the number of completed deliberation cycles.
func (a *WumpusAgent) Ticks() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.ticks
}

// Goals returns a copy of the goal base.
func (a *WumpusAgent) Goals() []behavior.Trigger {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]behavior.Trigger(nil), a.goals...)
}

// Snapshot copies the agent's beliefs.
func (a *WumpusAgent) Snapshot() belief.Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.store.Snapshot()
}
