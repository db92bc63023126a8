package service

import (
	"context"
	"errors"
	"testing"

	"ai-mart-inventory/internal/event"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func TestRecordSale(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	st := mustStore(t, repo, "")
	it := mustItem(t, repo, st.ID, "Milk", 6, 3, 2)
	rec := &recorder{}
	svc := NewSaleService(repo, rec, zap.NewNop())

	res, err := svc.Record(ctx, st.ID, RecordSaleRequest{ItemID: it.ID, Quantity: 5}, "u1")
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if res.Item.RackStock != 1 || res.Item.TotalStock != 0 {
		t.Fatalf("item after sale: rack=%d total=%d, want 1/0", res.Item.RackStock, res.Item.TotalStock)
	}
	stored, _ := repo.Items.FindByID(ctx, st.ID, it.ID)
	if stored.RackStock != 1 || stored.TotalStock != 0 {
		t.Fatalf("persisted: rack=%d total=%d", stored.RackStock, stored.TotalStock)
	}
	if len(rec.events) != 1 || rec.events[0].Action != event.ActionSaleRecorded || rec.events[0].StoreID != st.ID {
		t.Fatalf("events = %+v", rec.events)
	}

	sales, err := svc.ListRecent(ctx, st.ID)
	if err != nil || len(sales) != 1 || sales[0].Item == nil || sales[0].Item.Name != "Milk" {
		t.Fatalf("recent = %+v, err %v", sales, err)
	}
}

func TestRecordSaleRejects(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	st := mustStore(t, repo, "")
	other := mustStore(t, repo, "")
	it := mustItem(t, repo, st.ID, "Milk", 2, 10, 2)
	svc := NewSaleService(repo, event.Nop{}, zap.NewNop())

	cases := []struct {
		name    string
		storeID uuid.UUID
		req     RecordSaleRequest
		want    error
	}{
		{"more than shelf", st.ID, RecordSaleRequest{ItemID: it.ID, Quantity: 3}, ErrInsufficientStock},
		{"zero quantity", st.ID, RecordSaleRequest{ItemID: it.ID, Quantity: 0}, ErrInvalidInput},
		{"missing item id", st.ID, RecordSaleRequest{Quantity: 1}, ErrInvalidInput},
		{"other store", other.ID, RecordSaleRequest{ItemID: it.ID, Quantity: 1}, ErrItemNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Record(ctx, tc.storeID, tc.req, "u1"); !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
		})
	}

	stored, _ := repo.Items.FindByID(ctx, st.ID, it.ID)
	if stored.RackStock != 2 || stored.TotalStock != 10 {
		t.Fatalf("rejected sales changed stock: %+v", stored)
	}
}
