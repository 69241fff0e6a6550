package agent_test

import (
	"context"
	"testing"
	"time"

	bt "github.com/joeycumines/go-behaviortree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/hupe1980/wumpusmesh/agent"
	"github.com/hupe1980/wumpusmesh/behavior"
	"github.com/hupe1980/wumpusmesh/core"
	"github.com/hupe1980/wumpusmesh/grid"
	"github.com/hupe1980/wumpusmesh/internal/testutil"
	"github.com/hupe1980/wumpusmesh/logging"
	"github.com/hupe1980/wumpusmesh/transport"
	"github.com/hupe1980/wumpusmesh/world"
)

func observedLogger() (logging.Logger, *observer.ObservedLogs) {
	zc, logs := observer.New(zap.DebugLevel)
	return logging.NewZapAdapter(zap.New(zc)), logs
}

func TestNew_EnvironmentFull(t *testing.T) {
	env := &testutil.MockEnvironment{}
	env.On("RegisterAgent").Return(-1, core.ErrEnvironmentFull)

	a, err := agent.New(env, transport.NewLocal())
	assert.Nil(t, a)
	assert.ErrorIs(t, err, core.ErrEnvironmentFull)
	env.AssertExpectations(t)
}

func TestNew_DuplicateInbox(t *testing.T) {
	tr := transport.NewLocal()
	_, err := tr.Register(0)
	require.NoError(t, err)

	_, err = agent.New(testutil.NewMockEnvironment(4, 4), tr)
	assert.Error(t, err)
}

func TestTick_InitialPlan(t *testing.T) {
	env := testutil.NewMockEnvironment(4, 4)
	env.On("Perceive", 0).Return(testutil.Clear(0, 0)).Once()
	env.On("AnnounceSelf", 0, 0, 0).Once()

	a, err := agent.New(env, transport.NewLocal())
	require.NoError(t, err)
	assert.Equal(t, 0, a.ID())
	assert.False(t, a.Idle())

	require.NoError(t, a.Tick(context.Background()))

	assert.Equal(t, uint64(1), a.Ticks())
	assert.Equal(t, []behavior.Trigger{behavior.ClearWorldGoal{}}, a.Goals())
	assert.True(t, a.Beliefs().Cell(0, 0).Visited)
	assert.True(t, a.Beliefs().Cell(1, 0).Safe)
	assert.True(t, a.Beliefs().Cell(0, 1).Safe)
	env.AssertExpectations(t)
}

func TestTick_CancelledContext(t *testing.T) {
	a, err := agent.New(testutil.NewMockEnvironment(4, 4), transport.NewLocal())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, a.Tick(ctx), context.Canceled)
	assert.Equal(t, uint64(0), a.Ticks())

	status, err := a.Node(ctx).Tick()
	assert.Equal(t, bt.Failure, status)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestActions_RejectedMoveKeepsBeliefs(t *testing.T) {
	env := testutil.NewMockEnvironment(4, 4)
	a, err := agent.New(env, transport.NewLocal())
	require.NoError(t, err)

	env.On("Move", 0, core.Left).Return(false).Once()
	assert.False(t, a.Move(core.Left))
	assert.Equal(t, core.Position{X: 0, Y: 0}, a.Beliefs().Self().Position)

	env.On("Move", 0, core.Up).Return(true).Once()
	assert.True(t, a.Move(core.Up))
	assert.Equal(t, core.Position{X: 0, Y: 1}, a.Beliefs().Self().Position)
	assert.Equal(t, 0, a.Beliefs().Distance(0, 1))
	env.AssertExpectations(t)
}

func TestActions_RejectedGrabAndDropKeepBeliefs(t *testing.T) {
	env := testutil.NewMockEnvironment(4, 4)
	a, err := agent.New(env, transport.NewLocal())
	require.NoError(t, err)

	env.On("Grab", 0).Return(false).Once()
	assert.False(t, a.Grab())
	assert.False(t, a.Beliefs().Self().HoldsGold)

	env.On("Grab", 0).Return(true).Once()
	assert.True(t, a.Grab())
	assert.True(t, a.Beliefs().Self().HoldsGold)

	env.On("Drop", 0).Return(true).Once()
	assert.False(t, a.Drop())
	assert.True(t, a.Beliefs().Self().HoldsGold)
	assert.Empty(t, a.Beliefs().GoldCells())

	env.On("Drop", 0).Return(false).Once()
	assert.True(t, a.Drop())
	assert.False(t, a.Beliefs().Self().HoldsGold)
	assert.Len(t, a.Beliefs().GoldCells(), 1)
	env.AssertExpectations(t)
}

func TestTick_DuplicateMessagesAppliedOnce(t *testing.T) {
	w, err := world.New(world.Standard())
	require.NoError(t, err)
	tr := transport.NewLocal()
	logger, logs := observedLogger()

	a, err := agent.New(w, tr, func(o *agent.Options) { o.Logger = logger })
	require.NoError(t, err)

	_, err = tr.Register(1)
	require.NoError(t, err)

	msg := core.NewMessage(1, 0, core.SafeFact(1, 1))
	require.NoError(t, tr.Send(context.Background(), msg))
	require.NoError(t, tr.Send(context.Background(), msg))

	require.NoError(t, a.Tick(context.Background()))

	assert.Equal(t, 1, logs.FilterMessage("Duplicate message dropped").Len())
	assert.Zero(t, tr.Pending(0))
	assert.False(t, a.Beliefs().Cell(1, 1).CanHavePit)
	assert.False(t, a.Beliefs().Cell(1, 1).CanHaveWumpus)
}

// run ticks every agent in turn until all are idle with empty inboxes. After
// every tick, each safe belief is checked against the ground truth.
func run(t *testing.T, w *world.World, tr *transport.Local, agents []*agent.WumpusAgent, maxRounds int) {
	t.Helper()
	ctx := context.Background()

	for round := 0; round < maxRounds; round++ {
		idle := true
		for _, a := range agents {
			require.NoError(t, a.Tick(ctx))
			a.Beliefs().Grid().Each(func(_ int, c *grid.Cell) {
				if c.Safe {
					require.False(t, w.Hazard(c.Position()), "agent %d believes hazard %s is safe", a.ID(), c.Position())
				}
			})
			if !a.Idle() || tr.Pending(a.ID()) > 0 {
				idle = false
			}
		}
		if idle {
			return
		}
	}
	t.Fatalf("agents still busy after %d rounds", maxRounds)
}

func TestSimulation_StandardWorld(t *testing.T) {
	w, err := world.New(world.Standard())
	require.NoError(t, err)
	tr := transport.NewLocal()

	a, err := agent.New(w, tr)
	require.NoError(t, err)

	run(t, w, tr, []*agent.WumpusAgent{a}, 500)

	assert.False(t, w.Dead(a.ID()))
	assert.Equal(t, 1, w.Delivered())
	assert.Zero(t, w.GoldLeft())

	snap := a.Snapshot()
	assert.True(t, snap.Explored)
	require.NotNil(t, snap.Wumpus)
	assert.Equal(t, core.Position{X: 0, Y: 2}, *snap.Wumpus)
}

func TestSimulation_TwoAgentsShareKnowledge(t *testing.T) {
	layout := world.Standard()
	layout.Agents = []core.Position{{X: 0, Y: 0}, {X: 1, Y: 1}}
	w, err := world.New(layout)
	require.NoError(t, err)
	tr := transport.NewLocal()

	var agents []*agent.WumpusAgent
	for i := 0; i < 2; i++ {
		a, err := agent.New(w, tr)
		require.NoError(t, err)
		agents = append(agents, a)
	}

	run(t, w, tr, agents, 1000)

	assert.Equal(t, 1, w.Delivered())
	for _, a := range agents {
		assert.False(t, w.Dead(a.ID()))
		snap := a.Snapshot()
		assert.True(t, snap.Explored)
		assert.Len(t, snap.Peers, 1)
	}
}

func TestBroadcast_FullInboxDefersSends(t *testing.T) {
	layout := world.Standard()
	layout.Agents = []core.Position{{X: 0, Y: 0}, {X: 1, Y: 1}}
	w, err := world.New(layout)
	require.NoError(t, err)
	tr := transport.NewLocal(func(o *transport.LocalOptions) { o.Buffer = 1 })

	logger, logs := observedLogger()
	sender, err := agent.New(w, tr, func(o *agent.Options) { o.Logger = logger })
	require.NoError(t, err)
	receiver, err := agent.New(w, tr)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, sender.Tick(ctx))
	require.NoError(t, receiver.Tick(ctx))

	// The receiver never drains its inbox here, so every send after the
	// first one has to wait in the sender's outbox.
	start := time.Now()
	for i := 0; i < 60; i++ {
		require.NoError(t, sender.Tick(ctx))
	}
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.Equal(t, 1, tr.Pending(receiver.ID()))
	assert.Positive(t, logs.FilterMessage("Sends deferred").Len())
	assert.False(t, sender.Idle(), "deferred sends keep the agent busy")

	run(t, w, tr, []*agent.WumpusAgent{sender, receiver}, 1000)

	assert.Equal(t, 1, w.Delivered())
	assert.Zero(t, tr.Pending(receiver.ID()))
	assert.True(t, sender.Idle())
}
