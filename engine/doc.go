// Package engine is the scheduling runtime that keeps a population of agents
// deliberating until the world has nothing left to offer them.
//
// # Execution Model
//
// Every registered agent is wrapped in a behavior tree node and driven by its
// own bt.Ticker. All tickers belong to one bt.Manager, so stopping the manager
// stops every agent at a tick boundary. Agents never share a goroutine: each
// ticker invokes exactly one deliberation cycle per interval.
//
//	┌────────────────────────── Engine.Run ──────────────────────────┐
//	│  bt.Manager                                                    │
//	│   ├── bt.Ticker ── callbacks ── agent 0 deliberation cycle     │
//	│   ├── bt.Ticker ── callbacks ── agent 1 deliberation cycle     │
//	│   └── ...                                                      │
//	│  monitor (errgroup) ── quiescence checks ── manager.Stop       │
//	└────────────────────────────────────────────────────────────────┘
//
// # Quiescence
//
// A monitor goroutine polls the agents at Config.CheckInterval. The run is
// quiescent once every agent reports Idle and the transport holds no pending
// message for any of them, for Config.IdleChecks consecutive checks. Requiring
// several consecutive checks absorbs messages sent between two polls.
//
// # Callbacks
//
// A CallbackManager hooks into the tick pipeline (before and after every
// tick, on errors, on quiescence). Callbacks run on the ticker goroutine of
// the agent concerned and must be safe for concurrent use.
//
// # Errors
//
// The first deliberation or callback error stops the run and is returned by
// Run. Cancelling the context passed to Run stops all tickers and Run returns
// the context's error.
//
// Example:
//
//	e := engine.New(func(o *engine.Options) {
//	    o.Transport = tr
//	    o.Config.TickInterval = 5 * time.Millisecond
//	})
//	for _, a := range agents {
//	    if err := e.Register(a); err != nil {
//	        return err
//	    }
//	}
//	res, err := e.Run(ctx)
package engine
