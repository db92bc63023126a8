package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"ai-mart-inventory/internal/event"
	"ai-mart-inventory/internal/llm"
	"ai-mart-inventory/internal/model"
	"ai-mart-inventory/internal/notify"
	"ai-mart-inventory/internal/repository"
	"ai-mart-inventory/internal/testutil"

	"github.com/google/uuid"
)

type fakeLLM struct {
	mu      sync.Mutex
	replies []string
	errs    []error
	calls   []llm.ChatRequest
	models  []string
}

func (f *fakeLLM) Complete(_ context.Context, req llm.ChatRequest, _ llm.Retry) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, req)
	i := len(f.calls) - 1
	if i < len(f.errs) && f.errs[i] != nil {
		return "", f.errs[i]
	}
	if i < len(f.replies) {
		return f.replies[i], nil
	}
	return "", errors.New("no scripted reply")
}

func (f *fakeLLM) Models(context.Context) ([]string, error) { return f.models, nil }
func (f *fakeLLM) Configured() bool                         { return true }

type fakeMailer struct {
	sent []notify.Email
	err  error
}

func (m *fakeMailer) Send(_ context.Context, e notify.Email) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, e)
	return nil
}

type recorder struct {
	mu     sync.Mutex
	events []event.Event
}

func (r *recorder) Publish(_ context.Context, e event.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func newRepo(t *testing.T) *repository.Repository {
	t.Helper()
	return repository.New(testutil.NewSQLite(t))
}

func mustStore(t *testing.T, repo *repository.Repository, email string) *model.Store {
	t.Helper()
	st := &model.Store{Name: "Corner Shop", Currency: model.DefaultCurrency}
	st.Settings.NotificationEmail = email
	if err := repo.Stores.Create(context.Background(), st); err != nil {
		t.Fatalf("create store: %v", err)
	}
	return st
}

func mustItem(t *testing.T, repo *repository.Repository, storeID uuid.UUID, name string, rack, total, threshold int) *model.Item {
	t.Helper()
	it := &model.Item{
		StoreID:    storeID,
		StoreType:  model.StoreTypeKirana,
		Name:       name,
		SKU:        name + "-" + uuid.NewString()[:6],
		Rack:       model.DefaultRack,
		RackStock:  rack,
		TotalStock: total,
		Threshold:  threshold,
	}
	if err := repo.Items.Create(context.Background(), it); err != nil {
		t.Fatalf("create item: %v", err)
	}
	return it
}

func mustSale(t *testing.T, repo *repository.Repository, storeID, itemID uuid.UUID, qty int, at time.Time) {
	t.Helper()
	s := &model.Sale{StoreID: storeID, ItemID: itemID, Quantity: qty}
	s.CreatedAt = at
	if err := repo.Sales.Create(context.Background(), s); err != nil {
		t.Fatalf("create sale: %v", err)
	}
}
