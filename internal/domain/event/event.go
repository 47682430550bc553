package event

import (
	"context"
	"time"
)

// Collections a change can touch.
const (
	CollectionWithdrawals = "withdrawalRequests"
	CollectionFlags       = "withdrawalFlags"
)

const (
	KindCreated = "created"
	KindUpdated = "updated"
)

// Event says "a record changed"; subscribers re-read the store rather than
// trusting the payload.
type Event struct {
	Collection   string    `json:"collection"`
	Kind         string    `json:"kind"`
	WithdrawalID string    `json:"withdrawal_id"`
	RecordID     string    `json:"record_id"`
	At           time.Time `json:"at"`
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// PublisherFunc adapts a plain function.
type PublisherFunc func(ctx context.Context, e Event) error

func (f PublisherFunc) Publish(ctx context.Context, e Event) error { return f(ctx, e) }

// Nop drops every event.
var Nop Publisher = PublisherFunc(func(context.Context, Event) error { return nil })
