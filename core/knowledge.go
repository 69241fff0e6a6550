package core

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// KnowledgeFact is a deduced fact about one cell shared between peers. A fact
// with HasWumpus set announces the certain wumpus location; any other fact is a
// hazard-clearing fact whose candidacy flags are applied like a local deduction.
type KnowledgeFact struct {
	X             int  `json:"x"`
	Y             int  `json:"y"`
	HasWumpus     bool `json:"has_wumpus"`
	CanHaveWumpus bool `json:"can_have_wumpus"`
	CanHavePit    bool `json:"can_have_pit"`
}

// Position returns the cell the fact is about.
func (f KnowledgeFact) Position() Position { return Position{X: f.X, Y: f.Y} }

// String renders the fact for logs.
func (f KnowledgeFact) String() string {
	if f.HasWumpus {
		return fmt.Sprintf("wumpus at (%d,%d)", f.X, f.Y)
	}
	return fmt.Sprintf("(%d,%d) wumpus=%t pit=%t", f.X, f.Y, f.CanHaveWumpus, f.CanHavePit)
}

// SafeFact returns the fact announcing that (x, y) was visited safely.
func SafeFact(x, y int) KnowledgeFact {
	return KnowledgeFact{X: x, Y: y}
}

// WumpusFact returns the fact announcing the certain wumpus location.
func WumpusFact(x, y int) KnowledgeFact {
	return KnowledgeFact{X: x, Y: y, HasWumpus: true, CanHaveWumpus: true}
}

// Message is the envelope carrying a KnowledgeFact from one agent to another.
// Transports deliver at least once; ID lets recipients drop duplicates.
type Message struct {
	ID        string        `json:"id"`
	From      int           `json:"from"`
	To        int           `json:"to"`
	Fact      KnowledgeFact `json:"fact"`
	Timestamp time.Time     `json:"timestamp"`
}

// NewMessage creates a message with a fresh unique ID and UTC timestamp.
func NewMessage(from, to int, fact KnowledgeFact) Message {
	return Message{
		ID:        NewID(),
		From:      from,
		To:        to,
		Fact:      fact,
		Timestamp: time.Now().UTC(),
	}
}

// NewID generates a new unique identifier for messages.
func NewID() string { return uuid.NewString() }
