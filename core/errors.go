package core

import "errors"

var (
	// ErrEnvironmentFull is returned when no agent slot is left in the environment.
	ErrEnvironmentFull = errors.New("environment is full")

	// ErrUnknownAgent is returned when an operation names an agent that was never registered.
	ErrUnknownAgent = errors.New("unknown agent")

	// ErrTransportClosed is returned by transports after Close.
	ErrTransportClosed = errors.New("transport closed")

	// ErrInboxFull is returned by TrySend when the recipient inbox has no room.
	ErrInboxFull = errors.New("inbox full")
)
