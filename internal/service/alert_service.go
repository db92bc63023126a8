package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"ai-mart-inventory/internal/model"
	"ai-mart-inventory/internal/notify"
	"ai-mart-inventory/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const expiryWindowDays = 3

var ErrNoRecipient = errors.New("no notification email configured")

// AlertService builds and mails the nightly stock digest of a store.
type AlertService interface {
	SendStore(ctx context.Context, storeID uuid.UUID) (*AlertReport, error)
	SendAll(ctx context.Context) (sent int, err error)
}

type AlertReport struct {
	StoreID   uuid.UUID `json:"store_id"`
	Recipient string    `json:"recipient"`
	LowStock  []string  `json:"low_stock"`
	Expiry    []string  `json:"expiry"`
	Sales     []string  `json:"sales"`
	SentAt    time.Time `json:"sent_at"`
}

type alertService struct {
	repo     *repository.Repository
	mailer   notify.Mailer
	fallback string
	loc      *time.Location
	log      *zap.Logger
	now      func() time.Time
}

// NewAlertService mails to each store's notification email, or to
// fallbackTo when the store has none.
func NewAlertService(repo *repository.Repository, mailer notify.Mailer, fallbackTo string, loc *time.Location, log *zap.Logger) AlertService {
	if loc == nil {
		loc = time.Local
	}
	return &alertService{repo: repo, mailer: mailer, fallback: fallbackTo, loc: loc, log: log.Named("alerts"), now: time.Now}
}

func (s *alertService) SendAll(ctx context.Context) (int, error) {
	stores, err := s.repo.Stores.ListAll(ctx)
	if err != nil {
		return 0, err
	}
	sent := 0
	for _, st := range stores {
		if err := ctx.Err(); err != nil {
			return sent, err
		}
		if _, err := s.SendStore(ctx, st.ID); err != nil {
			if errors.Is(err, ErrNoRecipient) {
				continue
			}
			s.log.Error("store alert failed", zap.String("store_id", st.ID.String()), zap.Error(err))
			continue
		}
		sent++
	}
	s.log.Info("nightly alerts done", zap.Int("stores", len(stores)), zap.Int("sent", sent))
	return sent, nil
}

func (s *alertService) SendStore(ctx context.Context, storeID uuid.UUID) (*AlertReport, error) {
	store, err := s.repo.Stores.FindByID(ctx, storeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrStoreNotFound
		}
		return nil, err
	}
	to := store.Settings.NotificationEmail
	if to == "" {
		to = s.fallback
	}
	if to == "" {
		return nil, ErrNoRecipient
	}

	report, err := s.build(ctx, store)
	if err != nil {
		return nil, err
	}
	report.Recipient = to

	data := map[string]any{
		"StoreName": store.Name,
		"Date":      report.SentAt.Format("02 Jan 2006 15:04"),
		"LowStock":  report.LowStock,
		"Expiry":    report.Expiry,
		"Sales":     report.Sales,
	}
	html, _, err := notify.Render(notify.TemplateDailyAlert, data)
	if err != nil {
		return nil, err
	}
	if err := s.mailer.Send(ctx, notify.Email{
		To:       to,
		Subject:  "AI Mart – Nightly Inventory Alerts",
		Template: notify.TemplateDailyAlert,
		Data:     data,
	}); err != nil {
		return nil, fmt.Errorf("send alert: %w", err)
	}
	if err := s.repo.Stores.SaveAlertCopy(ctx, store.ID, html, report.SentAt); err != nil {
		return nil, err
	}
	return report, nil
}

func (s *alertService) build(ctx context.Context, store *model.Store) (*AlertReport, error) {
	now := s.now().In(s.loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)
	r := &AlertReport{StoreID: store.ID, SentAt: now, LowStock: []string{}, Expiry: []string{}, Sales: []string{}}

	items, err := s.repo.Items.ListByStore(ctx, store.ID)
	if err != nil {
		return nil, err
	}
	for i := range items {
		it := &items[i]
		if it.IsLowStock() {
			r.LowStock = append(r.LowStock, fmt.Sprintf("%s (Rack Stock: %d, Threshold: %d)", it.Name, it.RackStock, it.Threshold))
		}
		days, ok := it.DaysToExpiry(today)
		switch {
		case !ok:
		case days < 0:
			r.Expiry = append(r.Expiry, fmt.Sprintf("%s has expired", it.Name))
		case days <= expiryWindowDays:
			r.Expiry = append(r.Expiry, fmt.Sprintf("%s expires in %d day(s)", it.Name, days))
		}
	}

	sales, err := s.repo.Sales.ListBetween(ctx, store.ID, today, today.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	sold := map[string]int{}
	for _, sl := range sales {
		name := sl.ItemID.String()
		if sl.Item != nil {
			name = sl.Item.Name
		}
		sold[name] += sl.Quantity
	}
	names := make([]string, 0, len(sold))
	for n := range sold {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		r.Sales = append(r.Sales, fmt.Sprintf("%s: %d sold today", n, sold[n]))
	}
	return r, nil
}
