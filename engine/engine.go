package engine

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	bt "github.com/joeycumines/go-behaviortree"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/wumpusmesh/core"
	"github.com/hupe1980/wumpusmesh/logging"
)

var (
	// ErrNoAgents is returned by Run when no agent is registered.
	ErrNoAgents = errors.New("no agents registered")
	// ErrAgentExists is returned when an agent id is registered twice.
	ErrAgentExists = errors.New("agent already registered")
	// ErrRunning is returned when Run or Register is called during a run.
	ErrRunning = errors.New("engine is running")
)

// Agent is what the engine schedules.
type Agent interface {
	ID() int
	// Idle reports whether the agent has no goal, trigger or plan left.
	Idle() bool
	// Ticks returns the number of completed deliberation cycles.
	Ticks() uint64
	// Node returns a behavior tree node running one deliberation cycle.
	Node(ctx context.Context) bt.Node
}

// Config defines the timing of a run.
//
// Example:
//
//	cfg := Config{
//	    TickInterval:  5 * time.Millisecond,
//	    CheckInterval: 10 * time.Millisecond,
//	    IdleChecks:    3,
//	}
type Config struct {
	// TickInterval is the pause between two deliberation cycles of one agent.
	TickInterval time.Duration

	// CheckInterval is the pause between two quiescence checks.
	CheckInterval time.Duration

	// IdleChecks is the number of consecutive quiescent checks that end a
	// run. Values below 1 are treated as 1.
	IdleChecks int
}

// DefaultConfig ticks every agent every 10ms and stops after three quiescent
// checks 20ms apart.
var DefaultConfig = Config{
	TickInterval:  10 * time.Millisecond,
	CheckInterval: 20 * time.Millisecond,
	IdleChecks:    3,
}

// Options configures an Engine.
type Options struct {
	// Config contains the timing parameters. Defaults to DefaultConfig.
	Config Config

	// Transport is consulted for undelivered messages during quiescence
	// checks. Optional.
	Transport core.Transport

	// Callbacks hook into the tick pipeline. Optional.
	Callbacks *CallbackManager

	// Logger defaults to NoOpLogger.
	Logger logging.Logger
}

// Result summarizes a finished run.
type Result struct {
	// Quiescent is true when the run ended because all agents went idle.
	Quiescent bool
	// Ticks is the total number of deliberation cycles over all agents.
	Ticks uint64
	// Elapsed is the wall time of the run.
	Elapsed time.Duration
}

// Engine drives registered agents with one behavior tree ticker each until
// they are quiescent, the context is cancelled or a tick fails.
//
// Register and Run are safe for concurrent use. Agents must be registered
// before Run; a running engine rejects new agents.
type Engine struct {
	config    Config
	transport core.Transport
	callbacks *CallbackManager
	logger    logging.Logger

	mu      sync.Mutex
	agents  []Agent
	running bool
	err     error
}

// New creates an Engine.
func New(optFns ...func(o *Options)) *Engine {
	opts := Options{
		Config:    DefaultConfig,
		Callbacks: NewCallbackManager(),
		Logger:    logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Config.IdleChecks < 1 {
		opts.Config.IdleChecks = 1
	}
	if opts.Callbacks == nil {
		opts.Callbacks = NewCallbackManager()
	}

	logger := opts.Logger
	if ml, ok := logger.(*logging.MeshLogger); ok {
		logger = ml.WithComponent("engine")
	}

	return &Engine{
		config:    opts.Config,
		transport: opts.Transport,
		callbacks: opts.Callbacks,
		logger:    logger,
	}
}

// Register adds an agent.
func (e *Engine) Register(a Agent) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.running {
		return ErrRunning
	}
	if slices.ContainsFunc(e.agents, func(other Agent) bool { return other.ID() == a.ID() }) {
		return fmt.Errorf("register agent %d: %w", a.ID(), ErrAgentExists)
	}
	e.agents = append(e.agents, a)
	return nil
}

// Agents returns the registered agents in registration order.
func (e *Engine) Agents() []Agent {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.agents)
}

// Run ticks all agents until they are quiescent. It returns the first tick
// error, or ctx's error when ctx ends the run.
func (e *Engine) Run(ctx context.Context) (Result, error) {
	agents, err := e.start()
	if err != nil {
		return Result{}, err
	}
	defer e.finish()

	started := time.Now()
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	manager := bt.NewManager()
	for _, a := range agents {
		ticker := bt.NewTicker(runCtx, e.config.TickInterval, e.node(runCtx, cancel, a))
		if err := manager.Add(ticker); err != nil {
			ticker.Stop()
			manager.Stop()
			<-manager.Done()
			return Result{}, fmt.Errorf("schedule agent %d: %w", a.ID(), err)
		}
	}
	e.logger.Info("Run started", "agents", len(agents), "tick_interval", e.config.TickInterval.String())

	var res Result
	g, gctx := errgroup.WithContext(runCtx)
	g.Go(func() error {
		<-manager.Done()
		cancel()
		return nil
	})
	g.Go(func() error {
		res.Quiescent = e.monitor(gctx, agents)
		manager.Stop()
		return nil
	})
	_ = g.Wait()

	for _, a := range agents {
		res.Ticks += a.Ticks()
	}
	res.Elapsed = time.Since(started)

	if res.Quiescent {
		_ = e.callbacks.ExecuteCallbacks(ctx, CallbackOnQuiescent, &CallbackContext{
			AgentID:      -1,
			CallbackType: CallbackOnQuiescent,
		})
	}
	e.logger.Info("Run finished", "quiescent", res.Quiescent, "ticks", res.Ticks, "elapsed", res.Elapsed.String())

	if err := e.firstErr(); err != nil {
		return res, err
	}
	if err := ctx.Err(); err != nil {
		return res, err
	}
	return res, nil
}

func (e *Engine) start() ([]Agent, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.running {
		return nil, ErrRunning
	}
	if len(e.agents) == 0 {
		return nil, ErrNoAgents
	}
	e.running = true
	e.err = nil
	return slices.Clone(e.agents), nil
}

func (e *Engine) finish() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.running = false
}

func (e *Engine) fail(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.err == nil {
		e.err = err
	}
}

func (e *Engine) firstErr() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.err
}

// node wraps one deliberation cycle of a with the tick callbacks. Errors stop
// the whole run unless the run is already shutting down.
func (e *Engine) node(ctx context.Context, stop context.CancelFunc, a Agent) bt.Node {
	cycle := a.Node(ctx)
	return bt.New(func([]bt.Node) (bt.Status, error) {
		cc := &CallbackContext{AgentID: a.ID(), Tick: a.Ticks() + 1}

		status, err := e.tick(ctx, cycle, cc)
		if err != nil {
			if ctx.Err() == nil {
				e.logger.Error("Tick failed", "agent", a.ID(), "error", err)
				cc.CallbackType, cc.Err = CallbackOnError, err
				_ = e.callbacks.ExecuteCallbacks(ctx, CallbackOnError, cc)
				e.fail(err)
				stop()
			}
			return bt.Failure, err
		}
		return status, nil
	})
}

func (e *Engine) tick(ctx context.Context, cycle bt.Node, cc *CallbackContext) (bt.Status, error) {
	cc.CallbackType = CallbackBeforeTick
	if err := e.callbacks.ExecuteCallbacks(ctx, CallbackBeforeTick, cc); err != nil {
		return bt.Failure, fmt.Errorf("before tick callback: %w", err)
	}

	status, err := cycle.Tick()
	if err != nil {
		return status, err
	}

	cc.CallbackType = CallbackAfterTick
	if err := e.callbacks.ExecuteCallbacks(ctx, CallbackAfterTick, cc); err != nil {
		return bt.Failure, fmt.Errorf("after tick callback: %w", err)
	}
	return status, nil
}

// monitor polls for quiescence and reports whether it was reached before ctx
// ended.
func (e *Engine) monitor(ctx context.Context, agents []Agent) bool {
	t := time.NewTicker(e.config.CheckInterval)
	defer t.Stop()

	idle := 0
	for {
		select {
		case <-ctx.Done():
			return false
		case <-t.C:
			if !e.quiescent(agents) {
				idle = 0
				continue
			}
			idle++
			e.logger.Debug("Quiescence check passed", "consecutive", idle)
			if idle >= e.config.IdleChecks {
				return true
			}
		}
	}
}

func (e *Engine) quiescent(agents []Agent) bool {
	for _, a := range agents {
		if !a.Idle() {
			return false
		}
		if e.transport != nil && e.transport.Pending(a.ID()) > 0 {
			return false
		}
	}
	return true
}
