package refill

import (
	"math/rand/v2"
	"testing"

	"github.com/google/uuid"
)

func TestDecide(t *testing.T) {
	cases := []struct {
		name        string
		in          ItemState
		wantSkip    bool
		wantMove    int
		wantShelf   int
		wantBacking int
		wantOrder   int
	}{
		{
			name:     "full move from backing",
			in:       ItemState{Threshold: 10, Shelf: 4, Backing: 50, Capacity: 20},
			wantMove: 16, wantShelf: 20, wantBacking: 34,
		},
		{
			name:     "partial move then order",
			in:       ItemState{Threshold: 5, Shelf: 2, Backing: 3, Capacity: 10},
			wantMove: 1, wantShelf: 3, wantBacking: 2, wantOrder: 7,
		},
		{
			name:     "above threshold",
			in:       ItemState{Threshold: 10, Shelf: 12, Backing: 50, Capacity: 20},
			wantSkip: true, wantShelf: 12, wantBacking: 50,
		},
		{
			name:      "backing not above shelf orders everything",
			in:        ItemState{Threshold: 10, Shelf: 5, Backing: 5, Capacity: 20},
			wantShelf: 5, wantBacking: 5, wantOrder: 15,
		},
		{
			name:      "shelf at capacity needs nothing",
			in:        ItemState{Threshold: 20, Shelf: 20, Backing: 100, Capacity: 20},
			wantShelf: 20, wantBacking: 100,
		},
		{
			name:      "shelf over capacity but under threshold needs nothing",
			in:        ItemState{Threshold: 30, Shelf: 25, Backing: 100, Capacity: 20},
			wantShelf: 25, wantBacking: 100,
		},
		{
			name:      "empty item",
			in:        ItemState{Threshold: 0, Shelf: 0, Backing: 0, Capacity: 20},
			wantShelf: 0, wantBacking: 0, wantOrder: 20,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.in.ID = uuid.New()
			d := Decide(tc.in)
			if d.ItemID != tc.in.ID {
				t.Fatalf("item id = %s, want %s", d.ItemID, tc.in.ID)
			}
			if d.Skipped != tc.wantSkip {
				t.Fatalf("skipped = %v, want %v", d.Skipped, tc.wantSkip)
			}
			if tc.wantSkip && d.Reason != ReasonAboveThreshold {
				t.Fatalf("reason = %q", d.Reason)
			}
			if d.Move != tc.wantMove || d.NewShelf != tc.wantShelf || d.NewBacking != tc.wantBacking || d.OrderQty != tc.wantOrder {
				t.Fatalf("got move=%d shelf=%d backing=%d order=%d, want move=%d shelf=%d backing=%d order=%d",
					d.Move, d.NewShelf, d.NewBacking, d.OrderQty,
					tc.wantMove, tc.wantShelf, tc.wantBacking, tc.wantOrder)
			}
		})
	}
}

func TestDecideProperties(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 5000; i++ {
		s := ItemState{
			ID:        uuid.New(),
			Shelf:     rng.IntN(60),
			Backing:   rng.IntN(120),
			Threshold: rng.IntN(40),
			Capacity:  rng.IntN(60),
		}
		d := Decide(s)

		if s.Shelf > s.Threshold {
			if !d.Skipped || d.NewShelf != s.Shelf || d.NewBacking != s.Backing || d.OrderQty != 0 {
				t.Fatalf("threshold gate violated for %+v: %+v", s, d)
			}
			continue
		}

		needed := max(0, s.Capacity-s.Shelf)
		if d.Move+d.OrderQty != needed {
			t.Fatalf("shortfall accounting: move %d + order %d != needed %d (%+v)", d.Move, d.OrderQty, needed, s)
		}
		if d.Move > 0 && d.NewShelf+d.NewBacking != s.Shelf+s.Backing {
			t.Fatalf("conservation violated for %+v: %+v", s, d)
		}
		if s.Shelf <= s.Capacity && d.NewShelf > s.Capacity {
			t.Fatalf("capacity exceeded for %+v: %+v", s, d)
		}
		if d.NewShelf < 0 || d.NewBacking < 0 {
			t.Fatalf("negative stock for %+v: %+v", s, d)
		}
	}
}

func TestPlanPreviewKeepsOrder(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	plan := BuildPlan([]ItemState{
		{ID: a, Threshold: 10, Shelf: 4, Backing: 50, Capacity: 20},
		{ID: b, Threshold: 10, Shelf: 12, Backing: 50, Capacity: 20},
		{ID: c, Threshold: 5, Shelf: 2, Backing: 3, Capacity: 10},
	})
	if !plan.Changes() {
		t.Fatal("expected plan to have changes")
	}

	s := plan.Preview()
	if len(s.Moved) != 2 || s.Moved[0].ItemID != a || s.Moved[0].Moved != 16 || s.Moved[1].ItemID != c || s.Moved[1].Moved != 1 {
		t.Fatalf("moved = %+v", s.Moved)
	}
	if len(s.Orders) != 1 || s.Orders[0].ItemID != c || s.Orders[0].Qty != 7 || !s.Orders[0].DryRun || s.Orders[0].OrderID != nil {
		t.Fatalf("orders = %+v", s.Orders)
	}
	if len(s.Skipped) != 1 || s.Skipped[0].ItemID != b {
		t.Fatalf("skipped = %+v", s.Skipped)
	}
}

func TestEmptyPlan(t *testing.T) {
	plan := BuildPlan(nil)
	if plan.Changes() {
		t.Fatal("empty plan reported changes")
	}
	s := plan.Preview()
	if s.Moved == nil || s.Orders == nil || s.Skipped == nil {
		t.Fatal("summary slices must be non-nil for JSON arrays")
	}
}
