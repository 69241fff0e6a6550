// Package wumpusmesh wires a wumpus world, a knowledge transport, a population
// of agents and the scheduling engine into one runnable simulation. Most
// applications interact with this package by:
//  1. Creating a Mesh via New (from a world layout) or NewFromConfig
//  2. Running it until the agents are quiescent
//  3. Inspecting the Report
package wumpusmesh

import (
	"context"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/hupe1980/wumpusmesh/agent"
	"github.com/hupe1980/wumpusmesh/belief"
	"github.com/hupe1980/wumpusmesh/config"
	"github.com/hupe1980/wumpusmesh/core"
	"github.com/hupe1980/wumpusmesh/engine"
	"github.com/hupe1980/wumpusmesh/logging"
	"github.com/hupe1980/wumpusmesh/transport"
	"github.com/hupe1980/wumpusmesh/transport/redis"
	"github.com/hupe1980/wumpusmesh/world"
)

// ErrNoAgents is returned when not a single agent could enter the world.
var ErrNoAgents = errors.New("no agent could be created")

// Options configures a Mesh.
type Options struct {
	// Agents is the number of agents to spawn. Zero spawns one per start cell.
	// Agents beyond the world's capacity are skipped with a warning.
	Agents int

	// WumpusPolicy decides how announced wumpus locations are handled.
	WumpusPolicy belief.WumpusPolicy

	// EngineConfig contains the scheduling parameters.
	EngineConfig engine.Config

	// Transport carries knowledge between agents. Defaults to an in-process
	// transport. The Mesh closes it on Close.
	Transport core.Transport

	// Callbacks hook into the tick pipeline. Optional.
	Callbacks *engine.CallbackManager

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// Mesh is one simulation run.
type Mesh struct {
	world     *world.World
	transport core.Transport
	engine    *engine.Engine
	agents    []*agent.WumpusAgent
	logger    logging.Logger
}

func defaultOptions() Options {
	return Options{
		WumpusPolicy: belief.TrustPeer,
		EngineConfig: engine.DefaultConfig,
		Logger:       logging.NoOpLogger{},
	}
}

// New creates the world from layout and spawns the agents.
func New(layout world.Layout, optFns ...func(o *Options)) (*Mesh, error) {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	return build(layout, opts)
}

// NewFromConfig validates cfg and builds the Mesh it describes, dialing Redis
// when the config selects the Redis transport. Options in optFns are applied
// on top of the config.
func NewFromConfig(cfg *config.Config, optFns ...func(o *Options)) (*Mesh, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	opts := defaultOptions()
	opts.Agents = cfg.Agents
	opts.WumpusPolicy = cfg.GetWumpusPolicy()
	opts.EngineConfig = engine.Config{
		TickInterval:  cfg.GetTickInterval(),
		CheckInterval: cfg.GetCheckInterval(),
		IdleChecks:    cfg.Simulation.IdleChecks,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Transport == nil && cfg.Transport.Kind == config.TransportRedis {
		tr, err := dialRedis(cfg.Transport, opts.Logger)
		if err != nil {
			return nil, err
		}
		opts.Transport = tr
	}
	return build(cfg.World, opts)
}

func build(layout world.Layout, opts Options) (*Mesh, error) {
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	if opts.Transport == nil {
		opts.Transport = transport.NewLocal()
	}

	w, err := world.New(layout, func(o *world.Options) { o.Logger = opts.Logger })
	if err != nil {
		_ = opts.Transport.Close()
		return nil, err
	}

	m := &Mesh{
		world:     w,
		transport: opts.Transport,
		logger:    opts.Logger,
		engine: engine.New(func(o *engine.Options) {
			o.Config = opts.EngineConfig
			o.Transport = opts.Transport
			o.Callbacks = opts.Callbacks
			o.Logger = opts.Logger
		}),
	}

	want := opts.Agents
	if want <= 0 {
		want = w.Capacity()
	}
	for i := 0; i < want; i++ {
		a, err := agent.New(w, opts.Transport, func(o *agent.Options) {
			o.Logger = opts.Logger
			o.WumpusPolicy = opts.WumpusPolicy
		})
		if errors.Is(err, core.ErrEnvironmentFull) {
			m.logger.Warn("World is full, skipping remaining agents", "requested", want, "created", len(m.agents))
			break
		}
		if err == nil {
			err = m.engine.Register(a)
		}
		if err != nil {
			_ = m.Close()
			return nil, err
		}
		m.agents = append(m.agents, a)
	}
	if len(m.agents) == 0 {
		_ = m.Close()
		return nil, ErrNoAgents
	}
	m.logger.Info("Mesh ready", "agents", len(m.agents), "width", w.Width(), "height", w.Height())
	return m, nil
}

func dialRedis(cfg config.TransportConfig, logger logging.Logger) (core.Transport, error) {
	client := goredis.NewClient(&goredis.Options{Addr: cfg.RedisAddr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis at %s: %w", cfg.RedisAddr, err)
	}
	tr := redis.New(client, func(o *redis.Options) {
		if cfg.Prefix != "" {
			o.Prefix = cfg.Prefix
		}
		o.Logger = logger
	})
	return &ownedRedis{Transport: tr, client: client}, nil
}

// ownedRedis closes the client it was created with.
type ownedRedis struct {
	*redis.Transport
	client *goredis.Client
}

func (o *ownedRedis) Close() error {
	return errors.Join(o.Transport.Close(), o.client.Close())
}

// Run runs the simulation until all agents are quiescent or ctx is done.
func (m *Mesh) Run(ctx context.Context) (engine.Result, error) {
	return m.engine.Run(ctx)
}

// World returns the ground truth.
func (m *Mesh) World() *world.World { return m.world }

// Agents returns the spawned agents.
func (m *Mesh) Agents() []*agent.WumpusAgent { return m.agents }

// Close releases the transport.
func (m *Mesh) Close() error { return m.transport.Close() }

// AgentReport is the outcome for one agent.
type AgentReport struct {
	ID        int
	Dead      bool
	HoldsGold bool
	Ticks     uint64
	Beliefs   belief.Snapshot
}

// Report summarizes the state of a simulation.
type Report struct {
	Delivered int
	GoldLeft  int
	Agents    []AgentReport
}

// Report collects the current outcome. It is safe to call while running.
func (m *Mesh) Report() Report {
	r := Report{
		Delivered: m.world.Delivered(),
		GoldLeft:  m.world.GoldLeft(),
	}
	for _, a := range m.agents {
		r.Agents = append(r.Agents, AgentReport{
			ID:        a.ID(),
			Dead:      m.world.Dead(a.ID()),
			HoldsGold: m.world.HoldsGold(a.ID()),
			Ticks:     a.Ticks(),
			Beliefs:   a.Snapshot(),
		})
	}
	return r
}
