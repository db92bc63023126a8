package refill

import "github.com/google/uuid"

const (
	MessageComplete = "AutoRefill run complete"
	MessageDisabled = "AutoRefill disabled for store"
)

type MovedItem struct {
	ItemID uuid.UUID `json:"itemId"`
	Moved  int       `json:"moved"`
}

type OrderEntry struct {
	ItemID  uuid.UUID  `json:"itemId"`
	OrderID *uuid.UUID `json:"orderId,omitempty"`
	Qty     int        `json:"qty"`
	DryRun  bool       `json:"dryRun,omitempty"`
}

type SkippedItem struct {
	ItemID uuid.UUID `json:"itemId"`
	Reason string    `json:"reason"`
}

// Summary records what one run did, in item enumeration order.
type Summary struct {
	Moved   []MovedItem   `json:"moved"`
	Orders  []OrderEntry  `json:"orders"`
	Skipped []SkippedItem `json:"skipped"`
}

func newSummary() Summary {
	return Summary{
		Moved:   []MovedItem{},
		Orders:  []OrderEntry{},
		Skipped: []SkippedItem{},
	}
}

// Result is returned by a successful run.
type Result struct {
	StoreID uuid.UUID `json:"storeId"`
	DryRun  bool      `json:"dryRun"`
	Message string    `json:"message"`
	Summary Summary   `json:"summary"`
}
