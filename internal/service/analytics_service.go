package service

import (
	"context"
	"errors"
	"time"

	"ai-mart-inventory/internal/model"
	"ai-mart-inventory/internal/repository"

	"github.com/google/uuid"
)

const (
	trendDays    = 7
	topItemsSize = 5
)

type AnalyticsService interface {
	SalesTrend(ctx context.Context, storeID uuid.UUID) ([]DayTotal, error)
	TopItems(ctx context.Context, storeID uuid.UUID) ([]TopItem, error)
	LowestStock(ctx context.Context, storeID uuid.UUID) (*model.Item, error)
}

type DayTotal struct {
	Date  string `json:"date"`
	Total int    `json:"total"`
}

type TopItem struct {
	ItemID uuid.UUID `json:"item_id"`
	Name   string    `json:"name"`
	Total  int       `json:"total"`
}

type analyticsService struct {
	repo *repository.Repository
	loc  *time.Location
	now  func() time.Time
}

func NewAnalyticsService(repo *repository.Repository, loc *time.Location) AnalyticsService {
	if loc == nil {
		loc = time.Local
	}
	return &analyticsService{repo: repo, loc: loc, now: time.Now}
}

func (s *analyticsService) windowStart() time.Time {
	now := s.now().In(s.loc)
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)
	return day.AddDate(0, 0, -(trendDays - 1))
}

// SalesTrend returns per-day sold quantities for the last seven days,
// oldest first. Days without sales are omitted.
func (s *analyticsService) SalesTrend(ctx context.Context, storeID uuid.UUID) ([]DayTotal, error) {
	from := s.windowStart()
	sales, err := s.repo.Sales.ListBetween(ctx, storeID, from, s.now())
	if err != nil {
		return nil, err
	}
	out := []DayTotal{}
	for _, sl := range sales {
		d := sl.CreatedAt.In(s.loc).Format("2006-01-02")
		if n := len(out); n > 0 && out[n-1].Date == d {
			out[n-1].Total += sl.Quantity
			continue
		}
		out = append(out, DayTotal{Date: d, Total: sl.Quantity})
	}
	return out, nil
}

func (s *analyticsService) TopItems(ctx context.Context, storeID uuid.UUID) ([]TopItem, error) {
	totals, err := s.repo.Sales.TopItems(ctx, storeID, s.windowStart(), topItemsSize)
	if err != nil {
		return nil, err
	}
	out := make([]TopItem, 0, len(totals))
	for _, t := range totals {
		ti := TopItem{ItemID: t.ItemID, Total: t.Total}
		if it, err := s.repo.Items.FindByID(ctx, storeID, t.ItemID); err == nil {
			ti.Name = it.Name
		}
		out = append(out, ti)
	}
	return out, nil
}

// LowestStock returns nil without error when the store has no items.
func (s *analyticsService) LowestStock(ctx context.Context, storeID uuid.UUID) (*model.Item, error) {
	it, err := s.repo.Items.LowestRackStock(ctx, storeID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	return it, err
}
