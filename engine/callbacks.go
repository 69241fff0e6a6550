package engine

import (
	"context"
	"sync"

	"github.com/hupe1980/wumpusmesh/logging"
)

// CallbackType defines the lifecycle points where callbacks run.
//
// Available callback types:
//   - BeforeTick/AfterTick: around one deliberation cycle of one agent
//   - OnError: when a cycle or a tick callback fails
//   - OnQuiescent: once, when a run ends because all agents went idle
type CallbackType string

const (
	// CallbackBeforeTick is triggered before an agent's deliberation cycle.
	// Returning an error skips the cycle and stops the run.
	CallbackBeforeTick CallbackType = "before_tick"

	// CallbackAfterTick is triggered after a successful deliberation cycle.
	// Use for invariant checks, rendering or metrics.
	CallbackAfterTick CallbackType = "after_tick"

	// CallbackOnError is triggered when a tick fails.
	CallbackOnError CallbackType = "on_error"

	// CallbackOnQuiescent is triggered when a run reaches quiescence.
	CallbackOnQuiescent CallbackType = "on_quiescent"
)

// CallbackContext describes the tick a callback runs for.
type CallbackContext struct {
	// AgentID identifies the ticked agent, -1 for run-level callbacks.
	AgentID int

	// Tick is the number of the cycle, starting at 1.
	Tick uint64

	// CallbackType indicates which callback type triggered this execution.
	CallbackType CallbackType

	// Err is the failure reported to OnError callbacks.
	Err error
}

// Callback is an execution lifecycle hook.
//
// Callbacks run synchronously on the ticker goroutine of the agent concerned,
// so implementations must be fast and safe for concurrent use.
type Callback interface {
	// Type returns the callback type this implementation handles.
	Type() CallbackType

	// Execute performs the callback logic. Returning an error from a tick
	// callback stops the run.
	Execute(ctx context.Context, callbackCtx *CallbackContext) error
}

// FunctionCallback wraps a function as a callback implementation.
//
// Example:
//
//	cb := NewFunctionCallback(CallbackAfterTick, func(ctx context.Context, cc *CallbackContext) error {
//	    fmt.Printf("agent %d finished tick %d\n", cc.AgentID, cc.Tick)
//	    return nil
//	})
type FunctionCallback struct {
	callbackType CallbackType
	fn           func(ctx context.Context, callbackCtx *CallbackContext) error
}

// NewFunctionCallback creates a function-based callback.
func NewFunctionCallback(
	callbackType CallbackType,
	fn func(ctx context.Context, callbackCtx *CallbackContext) error,
) *FunctionCallback {
	return &FunctionCallback{
		callbackType: callbackType,
		fn:           fn,
	}
}

// Type returns the callback type this function handles.
func (c *FunctionCallback) Type() CallbackType {
	return c.callbackType
}

// Execute calls the wrapped function with the provided context.
func (c *FunctionCallback) Execute(ctx context.Context, callbackCtx *CallbackContext) error {
	return c.fn(ctx, callbackCtx)
}

// CallbackManager is the registry of callbacks of one engine.
//
// Callbacks are executed in registration order, and any callback returning
// an error stops subsequent callbacks of the same type from running.
// Registration and execution are safe for concurrent use.
type CallbackManager struct {
	mu        sync.RWMutex
	callbacks map[CallbackType][]Callback
}

// NewCallbackManager creates an empty callback manager.
func NewCallbackManager() *CallbackManager {
	return &CallbackManager{
		callbacks: make(map[CallbackType][]Callback),
	}
}

// RegisterCallback adds a callback for its type.
//
// Example:
//
//	manager := NewCallbackManager()
//	manager.RegisterCallback(NewLoggingCallback(CallbackOnError, logger))
func (cm *CallbackManager) RegisterCallback(callback Callback) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	callbackType := callback.Type()
	cm.callbacks[callbackType] = append(cm.callbacks[callbackType], callback)
}

// ExecuteCallbacks executes all registered callbacks for the specified type
// and returns the first error.
func (cm *CallbackManager) ExecuteCallbacks(
	ctx context.Context,
	callbackType CallbackType,
	callbackCtx *CallbackContext,
) error {
	cm.mu.RLock()
	callbacks := cm.callbacks[callbackType]
	cm.mu.RUnlock()

	for _, callback := range callbacks {
		if err := callback.Execute(ctx, callbackCtx); err != nil {
			return err
		}
	}
	return nil
}

// LoggingCallback writes one structured log line per callback invocation.
type LoggingCallback struct {
	callbackType CallbackType
	logger       logging.Logger
}

// NewLoggingCallback creates a logging callback for callbackType.
func NewLoggingCallback(callbackType CallbackType, logger logging.Logger) *LoggingCallback {
	return &LoggingCallback{
		callbackType: callbackType,
		logger:       logger,
	}
}

// Type returns the callback type this logger handles.
func (c *LoggingCallback) Type() CallbackType {
	return c.callbackType
}

// Execute logs the callback context. Errors are logged at error level,
// everything else at debug level.
func (c *LoggingCallback) Execute(_ context.Context, callbackCtx *CallbackContext) error {
	if c.logger == nil {
		return nil
	}
	if callbackCtx.Err != nil {
		c.logger.Error("Engine callback", "type", string(c.callbackType), "agent", callbackCtx.AgentID,
			"tick", callbackCtx.Tick, "error", callbackCtx.Err)
		return nil
	}
	c.logger.Debug("Engine callback", "type", string(c.callbackType), "agent", callbackCtx.AgentID,
		"tick", callbackCtx.Tick)
	return nil
}
