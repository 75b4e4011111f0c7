// Package events publishes ledger change notifications to other systems.
package events

import (
	"context"
	"encoding/json"
	"time"
)

// Type names a kind of ledger change. It doubles as the AMQP routing key.
type Type string

const (
	PersonCreated      Type = "person.created"
	PersonRenamed      Type = "person.renamed"
	PersonDeleted      Type = "person.deleted"
	TransactionCreated Type = "transaction.created"
	TransactionDeleted Type = "transaction.deleted"
)

// Event describes one committed ledger change.
type Event struct {
	Type          Type      `json:"type"`
	OwnerID       string    `json:"owner_id"`
	PersonID      string    `json:"person_id,omitempty"`
	TransactionID string    `json:"transaction_id,omitempty"`
	Name          string    `json:"name,omitempty"`
	Amount        int64     `json:"amount,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// New creates an event stamped with the current time.
func New(typ Type, ownerID string) Event {
	return Event{Type: typ, OwnerID: ownerID, OccurredAt: time.Now().UTC()}
}

// ToJSON converts the event to JSON bytes.
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// Publisher delivers events. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// Nop discards every event. Used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close() error                         { return nil }

// Recorder keeps published events in memory. Tests use it to assert on
// emitted changes.
type Recorder struct {
	ch chan Event
}

// NewRecorder creates a Recorder buffering up to size events.
func NewRecorder(size int) *Recorder {
	return &Recorder{ch: make(chan Event, size)}
}

func (r *Recorder) Publish(_ context.Context, event Event) error {
	select {
	case r.ch <- event:
	default:
	}
	return nil
}

func (r *Recorder) Close() error { return nil }

// Events returns the events recorded so far, in publish order.
func (r *Recorder) Events() []Event {
	var out []Event
	for {
		select {
		case e := <-r.ch:
			out = append(out, e)
		default:
			return out
		}
	}
}
