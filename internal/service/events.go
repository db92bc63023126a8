package service

import (
	"context"
	"fmt"
	"time"

	"ai-mart-inventory/internal/event"
	"ai-mart-inventory/internal/refill"

	"github.com/google/uuid"
)

func stockEvent(action string, storeID uuid.UUID, data any, msg string) event.Event {
	return event.Event{
		Type:    event.TypeStockUpdate,
		Action:  action,
		StoreID: storeID,
		Data:    data,
		Message: msg,
		At:      time.Now(),
	}
}

// RefillEvents forwards committed refill runs to an event publisher.
type RefillEvents struct {
	Publisher event.Publisher
}

var _ refill.Publisher = RefillEvents{}

func (r RefillEvents) RefillApplied(storeID uuid.UUID, s refill.Summary) {
	msg := fmt.Sprintf("auto-refill moved %d item(s), ordered %d", len(s.Moved), len(s.Orders))
	r.Publisher.Publish(context.Background(), stockEvent(event.ActionRefillApplied, storeID, s, msg))
}
