package transport

import (
	"context"
	"fmt"
	"sync"

	"github.com/hupe1980/wumpusmesh/core"
)

// DefaultBuffer is the inbox capacity used when none is configured.
const DefaultBuffer = 100

// LocalOptions configures a Local transport.
type LocalOptions struct {
	// Buffer is the capacity of every inbox.
	Buffer int
}

// Local delivers messages through buffered channels. It is safe for
// concurrent use.
type Local struct {
	mu      sync.RWMutex
	inboxes map[int]chan core.Message
	buffer  int
	closed  bool

	done      chan struct{}
	closeOnce sync.Once
}

var (
	_ core.Transport = (*Local)(nil)
	_ core.TrySender = (*Local)(nil)
)

// NewLocal creates an empty in-process transport.
func NewLocal(optFns ...func(o *LocalOptions)) *Local {
	opts := LocalOptions{Buffer: DefaultBuffer}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Buffer <= 0 {
		opts.Buffer = DefaultBuffer
	}
	return &Local{
		inboxes: make(map[int]chan core.Message),
		buffer:  opts.Buffer,
		done:    make(chan struct{}),
	}
}

// Register creates the inbox of agent id.
func (l *Local) Register(id int) (<-chan core.Message, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil, core.ErrTransportClosed
	}
	if _, exists := l.inboxes[id]; exists {
		return nil, fmt.Errorf("register failed: inbox for agent %d already exists", id)
	}

	inbox := make(chan core.Message, l.buffer)
	l.inboxes[id] = inbox
	return inbox, nil
}

// Send enqueues msg into the inbox of msg.To. It blocks while the inbox is
// full until ctx is done or the transport is closed.
func (l *Local) Send(ctx context.Context, msg core.Message) error {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.closed {
		return core.ErrTransportClosed
	}
	inbox, exists := l.inboxes[msg.To]
	if !exists {
		return fmt.Errorf("send failed: agent %d: %w", msg.To, core.ErrUnknownAgent)
	}

	select {
	case inbox <- msg:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("send canceled by caller: %w", ctx.Err())
	case <-l.done:
		return core.ErrTransportClosed
	}
}

// TrySend enqueues msg into the inbox of msg.To without waiting. A full
// inbox yields an error wrapping core.ErrInboxFull.
func (l *Local) TrySend(msg core.Message) error {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.closed {
		return core.ErrTransportClosed
	}
	inbox, exists := l.inboxes[msg.To]
	if !exists {
		return fmt.Errorf("send failed: agent %d: %w", msg.To, core.ErrUnknownAgent)
	}

	select {
	case inbox <- msg:
		return nil
	default:
		return fmt.Errorf("send to agent %d: %w", msg.To, core.ErrInboxFull)
	}
}

// Pending returns the number of queued messages for id.
func (l *Local) Pending(id int) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.inboxes[id])
}

// Close wakes blocked senders and closes every inbox. Queued messages can
// still be drained by their receivers.
func (l *Local) Close() error {
	l.closeOnce.Do(func() {
		close(l.done)

		l.mu.Lock()
		defer l.mu.Unlock()
		l.closed = true
		for _, inbox := range l.inboxes {
			close(inbox)
		}
	})
	return nil
}
