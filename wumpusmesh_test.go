package wumpusmesh

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/hupe1980/wumpusmesh/config"
	"github.com/hupe1980/wumpusmesh/core"
	"github.com/hupe1980/wumpusmesh/engine"
	"github.com/hupe1980/wumpusmesh/logging"
	"github.com/hupe1980/wumpusmesh/transport"
	"github.com/hupe1980/wumpusmesh/world"
)

var fast = engine.Config{
	TickInterval:  time.Millisecond,
	CheckInterval: 2 * time.Millisecond,
	IdleChecks:    3,
}

func run(t *testing.T, m *Mesh) engine.Result {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	res, err := m.Run(ctx)
	require.NoError(t, err)
	return res
}

func TestMesh_StandardWorld(t *testing.T) {
	m, err := New(world.Standard(), func(o *Options) { o.EngineConfig = fast })
	require.NoError(t, err)
	defer m.Close()

	require.Len(t, m.Agents(), 1)
	res := run(t, m)
	assert.True(t, res.Quiescent)

	r := m.Report()
	assert.Equal(t, 1, r.Delivered)
	assert.Zero(t, r.GoldLeft)
	require.Len(t, r.Agents, 1)
	assert.False(t, r.Agents[0].Dead)
	assert.False(t, r.Agents[0].HoldsGold)
	assert.True(t, r.Agents[0].Beliefs.Explored)
	assert.Equal(t, m.World().Width(), r.Agents[0].Beliefs.Width)
}

func TestMesh_TinyInboxesReachQuiescence(t *testing.T) {
	layout := world.Layout{
		Width:  8,
		Height: 8,
		Agents: []core.Position{{X: 0, Y: 0}, {X: 7, Y: 0}, {X: 0, Y: 7}, {X: 7, Y: 7}},
		Gold:   []core.Position{{X: 4, Y: 4}},
		Chests: []core.Position{{X: 0, Y: 0}},
	}

	for i := 0; i < 3; i++ {
		m, err := New(layout, func(o *Options) {
			o.Agents = 4
			o.EngineConfig = fast
			o.Transport = transport.NewLocal(func(o *transport.LocalOptions) { o.Buffer = 1 })
		})
		require.NoError(t, err)

		res := run(t, m)
		assert.True(t, res.Quiescent)
		r := m.Report()
		assert.Equal(t, 1, r.Delivered)
		for _, ar := range r.Agents {
			assert.True(t, ar.Beliefs.Explored, "agent %d", ar.ID)
		}
		require.NoError(t, m.Close())
	}
}

func TestMesh_SkipsAgentsBeyondCapacity(t *testing.T) {
	zc, logs := observer.New(zap.DebugLevel)

	m, err := New(world.Standard(), func(o *Options) {
		o.Agents = 3
		o.EngineConfig = fast
		o.Logger = logging.NewZapAdapter(zap.New(zc))
	})
	require.NoError(t, err)
	defer m.Close()

	assert.Len(t, m.Agents(), 1)
	assert.Equal(t, 1, logs.FilterMessage("World is full, skipping remaining agents").Len())
}

func TestMesh_InvalidLayout(t *testing.T) {
	layout := world.Standard()
	layout.Agents = nil

	_, err := New(layout)
	assert.ErrorIs(t, err, world.ErrInvalidLayout)
}

func TestMesh_FromConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.World.Agents = []core.Position{{X: 0, Y: 0}, {X: 1, Y: 1}}
	cfg.Agents = 2
	cfg.WumpusPolicy = "trust-self"

	m, err := NewFromConfig(cfg, func(o *Options) { o.EngineConfig = fast })
	require.NoError(t, err)
	defer m.Close()

	require.Len(t, m.Agents(), 2)
	res := run(t, m)
	assert.True(t, res.Quiescent)

	r := m.Report()
	assert.Equal(t, 1, r.Delivered)
	for _, ar := range r.Agents {
		assert.False(t, ar.Dead)
		assert.Equal(t, []int{1 - ar.ID}, ar.Beliefs.Peers)
	}
}

func TestMesh_FromConfigErrors(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Agents = 0
	_, err := NewFromConfig(cfg)
	assert.ErrorIs(t, err, config.ErrInvalidConfig)

	cfg = config.DefaultConfig()
	cfg.Transport.Kind = config.TransportRedis
	cfg.Transport.RedisAddr = "127.0.0.1:1"
	_, err = NewFromConfig(cfg)
	assert.ErrorContains(t, err, "connect to redis")
}
