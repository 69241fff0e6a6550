package core

import "context"

// Transport delivers knowledge messages between agents.
//
// Delivery is asynchronous and fire-and-forget, ordered per sender/receiver
// pair and at least once: recipients must tolerate duplicates (see Message.ID).
type Transport interface {
	// Register creates the inbox of agent id. Messages addressed to id are
	// delivered to the returned channel.
	Register(id int) (<-chan Message, error)

	// Send enqueues msg for msg.To. It blocks only while the recipient inbox
	// applies backpressure and returns early when ctx is done.
	Send(ctx context.Context, msg Message) error

	// Pending returns the number of undelivered messages queued for id.
	Pending(id int) int

	// Close releases all inboxes.
	Close() error
}

// TrySender is implemented by transports that can enqueue without waiting.
// TrySend returns an error wrapping ErrInboxFull instead of blocking on a
// full recipient inbox.
type TrySender interface {
	TrySend(msg Message) error
}
