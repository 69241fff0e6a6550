// Package redis implements core.Transport over Redis pub/sub so that agents
// running in separate processes can exchange knowledge facts. Every agent
// subscribes to its own channel; messages travel as JSON.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"

	goredis "github.com/redis/go-redis/v9"

	"github.com/hupe1980/wumpusmesh/core"
	"github.com/hupe1980/wumpusmesh/logging"
)

// DefaultPrefix namespaces the agent channels.
const DefaultPrefix = "wumpusmesh:agent:"

// Options configures a Transport.
type Options struct {
	// Prefix is prepended to the agent id to form its channel name.
	Prefix string
	// Buffer is the capacity of every local inbox.
	Buffer int
	// Logger receives decode and delivery errors.
	Logger logging.Logger
}

type subscription struct {
	id     int
	pubsub *goredis.PubSub
	inbox  chan core.Message

	// inFlight counts messages published by this transport that the
	// forwarder has not delivered yet. Guarded by Transport.mu.
	inFlight int
}

// Transport delivers messages through Redis pub/sub.
type Transport struct {
	client *goredis.Client
	opts   Options

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.Mutex
	subs   map[int]*subscription
	closed bool
}

var _ core.Transport = (*Transport)(nil)

// New creates a transport on top of an existing client. The client is not
// closed by Close.
func New(client *goredis.Client, optFns ...func(o *Options)) *Transport {
	opts := Options{Prefix: DefaultPrefix, Buffer: 100, Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Transport{
		client: client,
		opts:   opts,
		ctx:    ctx,
		cancel: cancel,
		subs:   make(map[int]*subscription),
	}
}

// Channel returns the pub/sub channel of agent id.
func (t *Transport) Channel(id int) string { return t.opts.Prefix + strconv.Itoa(id) }

// Register subscribes to the channel of agent id and waits for the
// subscription to be confirmed.
func (t *Transport) Register(id int) (<-chan core.Message, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil, core.ErrTransportClosed
	}
	if _, exists := t.subs[id]; exists {
		return nil, fmt.Errorf("register failed: inbox for agent %d already exists", id)
	}

	ps := t.client.Subscribe(t.ctx, t.Channel(id))
	if _, err := ps.Receive(t.ctx); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("subscribe %s: %w", t.Channel(id), err)
	}

	sub := &subscription{id: id, pubsub: ps, inbox: make(chan core.Message, t.opts.Buffer)}
	t.subs[id] = sub

	t.wg.Add(1)
	go t.forward(sub)

	return sub.inbox, nil
}

// forward decodes published payloads into the local inbox until the
// subscription is closed.
func (t *Transport) forward(sub *subscription) {
	defer t.wg.Done()
	defer close(sub.inbox)

	for m := range sub.pubsub.Channel() {
		msg, err := Decode([]byte(m.Payload))
		if err != nil {
			t.opts.Logger.Warn("Dropping undecodable message", "channel", m.Channel, "error", err)
			t.settle(sub.id)
			continue
		}
		select {
		case sub.inbox <- msg:
			t.settle(sub.id)
		case <-t.ctx.Done():
			return
		}
	}
}

// track records a publish to a recipient subscribed through this transport.
// It reports whether the recipient is local.
func (t *Transport) track(id int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	sub, ok := t.subs[id]
	if ok {
		sub.inFlight++
	}
	return ok
}

// settle marks one message for id as delivered or lost. Messages published
// by other processes are never tracked, so the count does not go below zero.
func (t *Transport) settle(id int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if sub, ok := t.subs[id]; ok && sub.inFlight > 0 {
		sub.inFlight--
	}
}

// Send publishes msg on the recipient's channel. Redis pub/sub does not tell
// whether anyone is listening, so unknown recipients are not detected.
func (t *Transport) Send(ctx context.Context, msg core.Message) error {
	t.mu.Lock()
	closed := t.closed
	t.mu.Unlock()
	if closed {
		return core.ErrTransportClosed
	}

	payload, err := Encode(msg)
	if err != nil {
		return err
	}

	local := t.track(msg.To)
	receivers, err := t.client.Publish(ctx, t.Channel(msg.To), payload).Result()
	if err != nil || receivers == 0 {
		if local {
			t.settle(msg.To)
		}
		if err != nil {
			return fmt.Errorf("publish to agent %d: %w", msg.To, err)
		}
	}
	return nil
}

// Pending returns the number of messages for id that sit in its local inbox
// or were published through this transport and are still on their way.
// Messages published by other processes are only seen once forwarded.
func (t *Transport) Pending(id int) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	if sub, ok := t.subs[id]; ok {
		return len(sub.inbox) + sub.inFlight
	}
	return 0
}

// Close unsubscribes every agent and waits for the forwarders to exit.
func (t *Transport) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	subs := t.subs
	t.mu.Unlock()

	t.cancel()
	var firstErr error
	for _, sub := range subs {
		if err := sub.pubsub.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	t.wg.Wait()
	return firstErr
}

// Encode serializes a message for the wire.
func Encode(msg core.Message) ([]byte, error) {
	b, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("encode message %s: %w", msg.ID, err)
	}
	return b, nil
}

// Decode parses a wire payload. Messages without an id are rejected because
// recipients deduplicate by id.
func Decode(b []byte) (core.Message, error) {
	var msg core.Message
	if err := json.Unmarshal(b, &msg); err != nil {
		return core.Message{}, fmt.Errorf("decode message: %w", err)
	}
	if msg.ID == "" {
		return core.Message{}, fmt.Errorf("decode message: missing id")
	}
	return msg, nil
}
