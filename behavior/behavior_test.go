package behavior

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/wumpusmesh/belief"
	"github.com/hupe1980/wumpusmesh/core"
	"github.com/hupe1980/wumpusmesh/internal/testutil"
	"github.com/hupe1980/wumpusmesh/logging"
)

type fakeAgent struct {
	store   *belief.Store
	percept func(core.Position) core.Percept
	reject  bool

	moves     []core.Direction
	facts     []core.KnowledgeFact
	goals     []Trigger
	announced int
}

var _ Agent = (*fakeAgent)(nil)

func newFakeAgent(s *belief.Store) *fakeAgent {
	return &fakeAgent{store: s, percept: func(p core.Position) core.Percept {
		return testutil.Clear(p.X, p.Y)
	}}
}

func (f *fakeAgent) ID() int                        { return f.store.Self().ID }
func (f *fakeAgent) Beliefs() *belief.Store         { return f.store }
func (f *fakeAgent) Logger() logging.Logger         { return logging.NoOpLogger{} }
func (f *fakeAgent) AnnounceSelf()                  { f.announced++ }
func (f *fakeAgent) Broadcast(k core.KnowledgeFact) { f.facts = append(f.facts, k) }

func (f *fakeAgent) Perceive() belief.Update {
	return f.store.ProcessPercept(f.percept(f.store.Self().Position))
}

func (f *fakeAgent) Move(d core.Direction) bool {
	if f.reject {
		return false
	}
	f.moves = append(f.moves, d)
	f.store.MoveTo(f.store.Self().Position.Step(d))
	return true
}

func (f *fakeAgent) Grab() bool {
	f.store.Grab(!f.reject)
	return !f.reject
}

func (f *fakeAgent) Drop() bool {
	f.store.Drop(f.reject)
	return !f.reject
}

func (f *fakeAgent) AdoptGoal(t Trigger) {
	for _, g := range f.goals {
		if g == t {
			return
		}
	}
	f.goals = append(f.goals, t)
}

func TestDefaultLibrary_Selection(t *testing.T) {
	lib := DefaultLibrary()
	s := testutil.NewStoreBuilder().Percept(testutil.Clear(0, 0)).Build()

	tests := []struct {
		name    string
		trigger Trigger
		want    string
	}{
		{"startup", Startup{}, "initial"},
		{"clear world", ClearWorldGoal{}, "explore"},
		{"reachable safe target", TraverseGoal{X: 1, Y: 0, Target: Safe}, "traverse"},
		{"knowledge", KnowledgeMessage{Message: core.NewMessage(1, 0, core.SafeFact(3, 3))}, "knowledge"},
		{"announcement", AgentAnnounced{core.AgentAnnouncement{Agent: 1, X: 3, Y: 3}}, "announce"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, ok := lib.Select(s, tt.trigger)
			require.True(t, ok)
			assert.Equal(t, tt.want, st.Name)
		})
	}
}

func TestDefaultLibrary_NotApplicable(t *testing.T) {
	lib := DefaultLibrary()
	s := testutil.NewStoreBuilder().Percept(testutil.Clear(0, 0)).Build()

	_, ok := lib.Select(s, TraverseGoal{X: 3, Y: 3, Target: Safe})
	assert.False(t, ok, "unreachable target")

	_, ok = lib.Select(s, TraverseGoal{X: 1, Y: 0, Target: Gold})
	assert.False(t, ok, "no gold believed at the target")

	s.SetPursuing(true)
	_, ok = lib.Select(s, ClearWorldGoal{})
	assert.False(t, ok, "world clearing already pursued")
}

func TestInitialStrategy(t *testing.T) {
	s := belief.New(4, 4, 0)
	a := newFakeAgent(s)

	inst := InitialStrategy().Instantiate(Startup{}, a)
	assert.Equal(t, Pending, inst.State())

	assert.True(t, inst.ExecuteNextStep(a))
	assert.True(t, inst.Finished())
	assert.True(t, s.Cell(0, 0).Visited)
	assert.Equal(t, 1, a.announced)
	assert.Equal(t, []Trigger{ClearWorldGoal{}}, a.goals)
}

func TestExplore_PrefersChestWhenHoldingGold(t *testing.T) {
	s := testutil.NewStoreBuilder().
		Percept(
			testutil.NewPerceptBuilder().At(0, 0).Chest().Build(),
			testutil.Clear(1, 0),
			testutil.Clear(2, 0),
			testutil.NewPerceptBuilder().At(3, 0).Glitter().Build(),
		).
		HoldingGold().
		Build()
	require.True(t, s.Self().HoldsGold)
	require.Equal(t, 3, s.Distance(0, 0))
	require.Equal(t, 1, s.Distance(3, 1))

	a := newFakeAgent(s)
	inst := ExploreStrategy().Instantiate(ClearWorldGoal{}, a)
	assert.True(t, s.Pursuing())

	require.True(t, inst.ExecuteNextStep(a))
	assert.Equal(t, []Trigger{TraverseGoal{X: 0, Y: 0, Target: Chest}}, a.goals)
	assert.Equal(t, Running, inst.State())
}

func TestNextTarget_Priority(t *testing.T) {
	t.Run("gold before safe cells", func(t *testing.T) {
		s := testutil.NewStoreBuilder().
			Percept(testutil.NewPerceptBuilder().At(1, 0).Glitter().Build()).
			Percept(testutil.Clear(0, 0)).
			Build()
		goal, ok := NextTarget(s)
		require.True(t, ok)
		assert.Equal(t, TraverseGoal{X: 1, Y: 0, Target: Gold}, goal)
	})

	t.Run("nearest safe cell", func(t *testing.T) {
		s := testutil.NewStoreBuilder().Percept(testutil.Clear(0, 0)).Build()
		goal, ok := NextTarget(s)
		require.True(t, ok)
		assert.Equal(t, TraverseGoal{X: 1, Y: 0, Target: Safe}, goal)
	})

	t.Run("holding gold without a chest falls through to safe cells", func(t *testing.T) {
		s := testutil.NewStoreBuilder().
			Percept(testutil.NewPerceptBuilder().At(0, 0).Glitter().Build()).
			HoldingGold().
			Build()
		goal, ok := NextTarget(s)
		require.True(t, ok)
		assert.Equal(t, Safe, goal.Target)
	})

	t.Run("nothing left", func(t *testing.T) {
		s := testutil.NewStoreBuilder().Size(1, 1).Percept(testutil.Clear(0, 0)).Build()
		_, ok := NextTarget(s)
		assert.False(t, ok)
	})
}

func TestExplore_FinishesWhenNothingIsLeft(t *testing.T) {
	s := testutil.NewStoreBuilder().Size(1, 1).Percept(testutil.Clear(0, 0)).Build()
	a := newFakeAgent(s)

	inst := ExploreStrategy().Instantiate(ClearWorldGoal{}, a)
	require.True(t, inst.ExecuteNextStep(a))

	assert.True(t, inst.Finished())
	assert.True(t, s.Explored())
	assert.False(t, s.Pursuing())
	assert.True(t, ClearWorldGoal{}.IsProcessed(s))
}

func TestExplore_VisitsSafeCellAndAnnouncesIt(t *testing.T) {
	s := testutil.NewStoreBuilder().Percept(testutil.Clear(0, 0)).Build()
	s.AddPeer(1)
	a := newFakeAgent(s)

	inst := ExploreStrategy().Instantiate(ClearWorldGoal{}, a)
	require.True(t, inst.ExecuteNextStep(a))
	goal := TraverseGoal{X: 1, Y: 0, Target: Safe}
	require.Equal(t, []Trigger{goal}, a.goals)

	// waiting while the target is not reached
	require.True(t, inst.ExecuteNextStep(a))
	assert.Empty(t, a.facts)

	step := TraverseStrategy().Instantiate(goal, a)
	require.True(t, step.ExecuteNextStep(a))
	assert.True(t, step.Finished())
	require.True(t, goal.IsProcessed(s))

	require.True(t, inst.ExecuteNextStep(a))
	assert.True(t, s.Cell(1, 0).Visited)
	assert.Equal(t, []core.KnowledgeFact{core.SafeFact(1, 0)}, a.facts)
}

func TestExplore_AnnouncesNewlyLocatedWumpus(t *testing.T) {
	s := testutil.NewStoreBuilder().
		Percept(
			testutil.Clear(0, 2),
			testutil.NewPerceptBuilder().At(0, 1).Stench().Build(),
		).
		Build()
	a := newFakeAgent(s)
	a.percept = func(p core.Position) core.Percept {
		return testutil.NewPerceptBuilder().At(p.X, p.Y).Stench().Build()
	}

	inst := &exploreInstantiation{trigger: ClearWorldGoal{}, target: &TraverseGoal{X: 1, Y: 1, Target: Safe}}
	s.MoveTo(core.Position{X: 1, Y: 1})

	require.True(t, inst.ExecuteNextStep(a))
	want := []core.KnowledgeFact{core.WumpusFact(0, 0), core.SafeFact(1, 1)}
	if diff := cmp.Diff(want, a.facts); diff != "" {
		t.Fatalf("broadcast mismatch (-want +got):\n%s", diff)
	}
	assert.Nil(t, inst.target)
}

func TestExplore_RejectedGrabResyncs(t *testing.T) {
	s := testutil.NewStoreBuilder().
		Percept(testutil.NewPerceptBuilder().At(0, 0).Glitter().Build()).
		Build()
	a := newFakeAgent(s)
	a.reject = true

	inst := &exploreInstantiation{trigger: ClearWorldGoal{}, target: &TraverseGoal{X: 0, Y: 0, Target: Gold}}
	assert.False(t, inst.ExecuteNextStep(a))
	assert.False(t, s.Self().HoldsGold)
	assert.Empty(t, s.GoldCells(), "percept without glitter forgets the gold")
}

func TestTraverse_TakesOnlyTheFirstMove(t *testing.T) {
	s := testutil.NewStoreBuilder().
		Percept(testutil.Clear(1, 0), testutil.Clear(0, 0)).
		Build()
	a := newFakeAgent(s)
	goal := TraverseGoal{X: 2, Y: 0, Target: Safe}

	st, ok := DefaultLibrary().Select(s, goal)
	require.True(t, ok)

	inst := st.Instantiate(goal, a)
	require.True(t, inst.ExecuteNextStep(a))
	assert.True(t, inst.Finished())
	assert.Equal(t, []core.Direction{core.Right}, a.moves)
	assert.Equal(t, core.Position{X: 1, Y: 0}, s.Self().Position)
	assert.False(t, goal.IsProcessed(s))
}

func TestTraverse_RejectedMove(t *testing.T) {
	s := testutil.NewStoreBuilder().Percept(testutil.Clear(0, 0)).Build()
	a := newFakeAgent(s)
	a.reject = true

	inst := TraverseStrategy().Instantiate(TraverseGoal{X: 1, Y: 0, Target: Safe}, a)
	assert.False(t, inst.ExecuteNextStep(a))
	assert.True(t, inst.Finished())
	assert.Equal(t, core.Position{X: 0, Y: 0}, s.Self().Position)
}

func TestKnowledge_ReopensExploredWorld(t *testing.T) {
	s := testutil.NewStoreBuilder().Percept(testutil.Clear(0, 0)).Build()
	s.SetExplored(true)
	a := newFakeAgent(s)

	msg := KnowledgeMessage{Message: core.NewMessage(1, 0, core.KnowledgeFact{X: 2, Y: 3})}
	st, ok := DefaultLibrary().Select(s, msg)
	require.True(t, ok)

	inst := st.Instantiate(msg, a)
	require.True(t, inst.ExecuteNextStep(a))

	assert.False(t, s.Explored())
	assert.Equal(t, []Trigger{ClearWorldGoal{}}, a.goals)
	assert.True(t, s.Cell(2, 3).Safe)

	next, ok := DefaultLibrary().Select(s, ClearWorldGoal{})
	require.True(t, ok)
	assert.Equal(t, "explore", next.Name)
}

func TestKnowledge_WumpusAnnouncement(t *testing.T) {
	s := testutil.NewStoreBuilder().Percept(testutil.Clear(0, 0)).Build()
	a := newFakeAgent(s)

	msg := KnowledgeMessage{Message: core.NewMessage(1, 0, core.WumpusFact(2, 2))}
	inst := KnowledgeStrategy().Instantiate(msg, a)
	require.True(t, inst.ExecuteNextStep(a))

	pos, found := s.FoundWumpus()
	require.True(t, found)
	assert.Equal(t, core.Position{X: 2, Y: 2}, pos)
	assert.Empty(t, a.goals, "a wumpus announcement does not reopen exploration")
}

func TestKnowledge_RejectedUnderTrustSelf(t *testing.T) {
	s := testutil.NewStoreBuilder().Policy(belief.TrustSelf).Percept(testutil.Clear(0, 0)).Build()
	a := newFakeAgent(s)

	msg := KnowledgeMessage{Message: core.NewMessage(1, 0, core.WumpusFact(1, 0))}
	inst := KnowledgeStrategy().Instantiate(msg, a)

	assert.False(t, inst.ExecuteNextStep(a))
	assert.True(t, inst.Finished())
	_, found := s.FoundWumpus()
	assert.False(t, found)
}

func TestKnowledge_RejectsClearingKnownPit(t *testing.T) {
	s := testutil.NewStoreBuilder().Size(3, 1).
		Percept(testutil.NewPerceptBuilder().At(0, 0).Breeze().Build()).
		Build()
	s.SetExplored(true)
	a := newFakeAgent(s)

	msg := KnowledgeMessage{Message: core.NewMessage(1, 0, core.SafeFact(1, 0))}
	inst := KnowledgeStrategy().Instantiate(msg, a)

	assert.False(t, inst.ExecuteNextStep(a))
	assert.True(t, inst.Finished())
	assert.True(t, s.Cell(1, 0).Pit)
	assert.False(t, s.Cell(1, 0).Safe)
	assert.True(t, s.Explored(), "a rejected fact does not reopen exploration")
	assert.Empty(t, a.goals)
}

func TestAnnounce_RegistersPeer(t *testing.T) {
	s := testutil.NewStoreBuilder().Percept(testutil.Clear(0, 0)).Build()
	a := newFakeAgent(s)

	ev := AgentAnnounced{core.AgentAnnouncement{Agent: 2, X: 3, Y: 3}}
	inst := AnnounceStrategy().Instantiate(ev, a)
	require.True(t, inst.ExecuteNextStep(a))

	assert.Equal(t, []int{2}, s.Peers())
	assert.True(t, s.Cell(3, 3).Safe)
	assert.Contains(t, inst.Describe(), "agent 2")
}

func TestTriggers_Comparable(t *testing.T) {
	var a, b Trigger = TraverseGoal{X: 1, Y: 2, Target: Gold}, TraverseGoal{X: 1, Y: 2, Target: Gold}
	assert.True(t, a == b)
	assert.False(t, a == Trigger(TraverseGoal{X: 1, Y: 2, Target: Chest}))
	assert.False(t, Trigger(ClearWorldGoal{}) == Trigger(Startup{}))
}

func TestTriggers_KindAndString(t *testing.T) {
	s := testutil.NewStoreBuilder().Percept(testutil.Clear(0, 0)).Build()

	tests := []struct {
		trigger   Trigger
		kind      TriggerKind
		str       string
		processed bool
	}{
		{Startup{}, KindStartup, "startup", false},
		{ClearWorldGoal{}, KindClearWorld, "clear world", false},
		{TraverseGoal{X: 0, Y: 0, Target: Safe}, KindTraverse, "traverse to (0,0) for SAFE", true},
		{TraverseGoal{X: 1, Y: 0, Target: Gold}, KindTraverse, "traverse to (1,0) for GOLD", false},
		{AgentAnnounced{core.AgentAnnouncement{Agent: 2, X: 3, Y: 1}}, KindAnnouncement, "agent 2 announced at (3,1)", false},
	}
	for _, tt := range tests {
		t.Run(tt.str, func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.trigger.Kind())
			assert.Equal(t, tt.str, tt.trigger.String())
			assert.Equal(t, tt.processed, tt.trigger.IsProcessed(s))
		})
	}

	msg := KnowledgeMessage{Message: core.NewMessage(1, 0, core.SafeFact(2, 2))}
	assert.Equal(t, KindKnowledge, msg.Kind())
	assert.False(t, msg.IsProcessed(s))
	assert.Contains(t, msg.String(), "message from 1")
	assert.Equal(t, "knowledge", KindKnowledge.String())
}
