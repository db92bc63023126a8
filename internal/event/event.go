// Package event carries store-scoped inventory notifications to live
// subscribers and the message bus.
package event

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	TypeStockUpdate = "stock_update"

	ActionSaleRecorded  = "sale_recorded"
	ActionRefillApplied = "refill_applied"
	ActionItemUpdated   = "item_updated"
	ActionItemDeleted   = "item_deleted"
)

type Event struct {
	Type    string    `json:"type"`
	Action  string    `json:"action"`
	StoreID uuid.UUID `json:"store_id"`
	Data    any       `json:"data,omitempty"`
	Message string    `json:"message,omitempty"`
	At      time.Time `json:"at"`
}

// Publisher delivers events. Implementations must not block the caller
// for long; delivery is best effort.
type Publisher interface {
	Publish(ctx context.Context, e Event)
}

// Multi fans an event out to every publisher in order.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, e Event) {
	for _, p := range m {
		if p != nil {
			p.Publish(ctx, e)
		}
	}
}

// Nop drops events.
type Nop struct{}

func (Nop) Publish(context.Context, Event) {}
