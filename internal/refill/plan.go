// Package refill moves backing stock onto shelves and raises restock
// orders for whatever the backing stock cannot cover.
package refill

import "github.com/google/uuid"

const ReasonAboveThreshold = "above threshold"

// ItemState is the slice of an item the planner looks at. Capacity is
// already resolved.
type ItemState struct {
	ID        uuid.UUID
	Shelf     int
	Backing   int
	Threshold int
	Capacity  int
}

// Decision is the planned outcome for one item.
type Decision struct {
	ItemID     uuid.UUID
	Skipped    bool
	Reason     string
	Move       int
	NewShelf   int
	NewBacking int
	OrderQty   int
}

// Decide computes the outcome for a single item. It has no side effects.
func Decide(s ItemState) Decision {
	d := Decision{ItemID: s.ID, NewShelf: s.Shelf, NewBacking: s.Backing}

	if s.Shelf > s.Threshold {
		d.Skipped = true
		d.Reason = ReasonAboveThreshold
		return d
	}

	needed := max(0, s.Capacity-s.Shelf)
	// Backing is compared against the shelf, not used on its own.
	available := max(0, s.Backing-s.Shelf)
	move := min(needed, available)

	if move > 0 {
		d.Move = move
		d.NewShelf = s.Shelf + move
		d.NewBacking = max(0, s.Backing-move)
	}
	if still := needed - move; still > 0 {
		d.OrderQty = still
	}
	return d
}

// Plan is the ordered list of decisions for one store run.
type Plan struct {
	Decisions []Decision
}

// BuildPlan decides every item in enumeration order.
func BuildPlan(items []ItemState) Plan {
	p := Plan{Decisions: make([]Decision, 0, len(items))}
	for _, it := range items {
		p.Decisions = append(p.Decisions, Decide(it))
	}
	return p
}

// Changes reports whether applying the plan writes anything.
func (p Plan) Changes() bool {
	for _, d := range p.Decisions {
		if d.Move > 0 || d.OrderQty > 0 {
			return true
		}
	}
	return false
}

// Preview renders the plan as a summary without persisting anything.
// Orders are flagged as dry-run and carry no id.
func (p Plan) Preview() Summary {
	s := newSummary()
	for _, d := range p.Decisions {
		switch {
		case d.Skipped:
			s.Skipped = append(s.Skipped, SkippedItem{ItemID: d.ItemID, Reason: d.Reason})
		default:
			if d.Move > 0 {
				s.Moved = append(s.Moved, MovedItem{ItemID: d.ItemID, Moved: d.Move})
			}
			if d.OrderQty > 0 {
				s.Orders = append(s.Orders, OrderEntry{ItemID: d.ItemID, Qty: d.OrderQty, DryRun: true})
			}
		}
	}
	return s
}
