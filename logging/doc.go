// Package logging provides a minimal logging interface and adapters for wumpusmesh.
//
// The Logger interface defines the standard logging methods (Debug, Info, Warn, Error)
// that agents, transports and the engine use for observability. This package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping an application's *slog.Logger
//   - ZapAdapter wrapping a zap sugared logger
//   - MeshLogger with agent/component context and deliberation helpers
//   - NoOpLogger for silent operation (testing, minimal setups)
//   - StartTimer for logging the duration of a whole operation
//
// Usage:
//
//	logger := logging.NewSlogLogger(logging.LogLevelInfo, "json", false)
//	a, err := agent.New(env, tr, func(o *agent.Options) { o.Logger = logger })
package logging
