package calendar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"ai-mart-inventory/config"
)

// Fetcher loads the holidays of one year.
type Fetcher interface {
	Holidays(ctx context.Context, year int) ([]Festival, error)
}

// Calendarific queries calendarific.com for national, religious and
// observance holidays of a single country.
type Calendarific struct {
	apiKey  string
	baseURL string
	country string
	http    *http.Client
}

func NewCalendarific(cfg config.CalendarConfig) *Calendarific {
	return &Calendarific{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		country: cfg.Country,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

var keptTypes = map[string]bool{
	"National holiday": true,
	"Religious":        true,
	"Observance":       true,
}

type calendarificResponse struct {
	Response struct {
		Holidays []struct {
			Name        string   `json:"name"`
			Description string   `json:"description"`
			Type        []string `json:"type"`
			Date        struct {
				ISO string `json:"iso"`
			} `json:"date"`
		} `json:"holidays"`
	} `json:"response"`
}

func (c *Calendarific) Holidays(ctx context.Context, year int) ([]Festival, error) {
	if c.apiKey == "" {
		return nil, errors.New("calendarific: api key not configured")
	}
	q := url.Values{}
	q.Set("api_key", c.apiKey)
	q.Set("country", c.country)
	q.Set("year", strconv.Itoa(year))
	q.Set("type", "national_holiday,religious,observance")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/holidays?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calendarific: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("calendarific: status %d", resp.StatusCode)
	}

	var body calendarificResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("calendarific: decode: %w", err)
	}

	var out []Festival
	for _, h := range body.Response.Holidays {
		if !anyKept(h.Type) {
			continue
		}
		d, err := parseISO(h.Date.ISO)
		if err != nil {
			continue
		}
		out = append(out, Festival{
			Name:        h.Name,
			Description: h.Description,
			ISO:         h.Date.ISO,
			Date:        d,
			Types:       h.Type,
		})
	}
	return out, nil
}

func anyKept(types []string) bool {
	for _, t := range types {
		if keptTypes[t] {
			return true
		}
	}
	return false
}

func parseISO(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("calendar: unparseable date %q", s)
}
