// Package calendar lists upcoming festivals that drive seasonal stocking.
package calendar

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"ai-mart-inventory/internal/cache"

	"go.uber.org/zap"
)

const cacheTTL = 24 * time.Hour

type Festival struct {
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	ISO         string    `json:"iso"`
	Date        time.Time `json:"date"`
	Types       []string  `json:"type"`
	DaysUntil   int       `json:"days_until,omitempty"`
}

type Service struct {
	fetcher Fetcher
	cache   cache.Cache
	country string
	log     *zap.Logger
	now     func() time.Time
}

func NewService(fetcher Fetcher, c cache.Cache, country string, log *zap.Logger) *Service {
	return &Service{fetcher: fetcher, cache: c, country: country, log: log.Named("calendar"), now: time.Now}
}

// Festivals returns this year's and next year's festivals, deduplicated
// by name and date and sorted by date.
func (s *Service) Festivals(ctx context.Context) ([]Festival, error) {
	year := s.now().Year()

	var (
		wg       sync.WaitGroup
		current  []Festival
		upcoming []Festival
	)
	wg.Add(2)
	go func() { defer wg.Done(); current = s.year(ctx, year) }()
	go func() { defer wg.Done(); upcoming = s.year(ctx, year+1) }()
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	all := append(current, upcoming...)
	if len(all) == 0 {
		all = append([]Festival(nil), fallbackFestivals...)
	}
	return dedupeSorted(all), nil
}

// Upcoming returns festivals within the next days days, soonest first.
func (s *Service) Upcoming(ctx context.Context, days int) ([]Festival, error) {
	all, err := s.Festivals(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	cutoff := now.AddDate(0, 0, days)

	var out []Festival
	for _, f := range all {
		if f.Date.Before(now) || f.Date.After(cutoff) {
			continue
		}
		f.DaysUntil = int(math.Ceil(f.Date.Sub(now).Hours() / 24))
		out = append(out, f)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DaysUntil < out[j].DaysUntil })
	return out, nil
}

// year serves one year from cache, else from the provider. Provider
// failures yield an empty list and are not cached.
func (s *Service) year(ctx context.Context, year int) []Festival {
	key := fmt.Sprintf("festivals:%s:%d", s.country, year)
	if raw, err := s.cache.Get(ctx, key); err == nil {
		var cached []Festival
		if json.Unmarshal(raw, &cached) == nil {
			return cached
		}
	}

	list, err := s.fetcher.Holidays(ctx, year)
	if err != nil {
		s.log.Warn("fetch holidays failed", zap.Int("year", year), zap.Error(err))
		return nil
	}
	if raw, err := json.Marshal(list); err == nil {
		if err := s.cache.Set(ctx, key, raw, cacheTTL); err != nil {
			s.log.Warn("cache holidays", zap.Error(err))
		}
	}
	s.log.Info("cached festivals", zap.Int("year", year), zap.Int("count", len(list)))
	return list
}

func dedupeSorted(in []Festival) []Festival {
	seen := make(map[string]bool, len(in))
	out := make([]Festival, 0, len(in))
	for _, f := range in {
		key := f.Name + "-" + f.ISO
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, f)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}
