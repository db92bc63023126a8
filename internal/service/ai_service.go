package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"ai-mart-inventory/internal/llm"
	"ai-mart-inventory/internal/model"
	"ai-mart-inventory/internal/repository"
	"ai-mart-inventory/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	AlertLowStock     = "LOW_STOCK"
	AlertExpired      = "EXPIRED"
	AlertExpiringSoon = "EXPIRING_SOON"
	AlertLowVelocity  = "LOW_VELOCITY"

	velocityWindowDays = 30
	defaultMaxDiscount = 50
	defaultDiscount    = 10
)

var (
	lowVelocity   = decimal.RequireFromString("0.5")
	jsonObject    = regexp.MustCompile(`\{[\s\S]*\}`)
	itemLineRegex = regexp.MustCompile(`(?i)Item[:\s]*([^|]+)`)
)

// LLM is the completion backend used by the AI features.
type LLM interface {
	llm.Completer
	Models(ctx context.Context) ([]string, error)
	Configured() bool
}

type AIService interface {
	Suggestions(ctx context.Context, storeID uuid.UUID, req SuggestionsRequest) (*SuggestionsResponse, error)
	FestivalSuggestions(ctx context.Context, req FestivalRequest) ([]string, error)
	ApplyDiscount(ctx context.Context, storeID uuid.UUID, req ApplyDiscountRequest) (*model.Item, error)
	Health(ctx context.Context) (*AIHealth, error)
}

type DiscountConfig struct {
	MaxDiscount     *int `json:"max_discount"`
	DefaultDiscount *int `json:"default_discount"`
}

type SuggestionsRequest struct {
	UserDiscountConfig DiscountConfig `json:"user_discount_config"`
}

type StockAlert struct {
	ItemID   uuid.UUID `json:"item_id"`
	ItemName string    `json:"item_name"`
	Message  string    `json:"message"`
}

type DiscountSuggestion struct {
	ItemID           uuid.UUID `json:"item_id"`
	ItemName         string    `json:"item_name"`
	RackStock        int       `json:"rack_stock"`
	Threshold        int       `json:"threshold"`
	DaysToExpiry     *int      `json:"days_to_expiry"`
	SalesVelocity    string    `json:"sales_velocity"`
	TotalSales       int       `json:"total_sales"`
	SuggestedPercent int       `json:"suggested_percent"`
	ApplyQty         int       `json:"apply_qty"`
	Reason           string    `json:"reason"`
}

type SuggestionSummary struct {
	TotalItems  int `json:"total_items"`
	AlertsCount int `json:"alerts_count"`
	LowStock    int `json:"low_stock"`
	Expiring    int `json:"expiring"`
}

type SuggestionsResponse struct {
	Error               string               `json:"error,omitempty"`
	Alerts              []StockAlert         `json:"alerts"`
	DiscountSuggestions []DiscountSuggestion `json:"discount_suggestions"`
	Insights            string               `json:"insights"`
	Summary             *SuggestionSummary   `json:"summary,omitempty"`
}

type FestivalRequest struct {
	FestivalName string `json:"festival_name" validate:"required"`
	DaysUntil    int    `json:"days_until"`
}

type ApplyDiscountRequest struct {
	ItemID          uuid.UUID `json:"item_id" validate:"uuid_required"`
	DiscountPercent *int      `json:"discount_percent" validate:"required,gte=0,lte=100"`
	ApplyQty        *int      `json:"apply_qty" validate:"required,gte=0"`
}

type AIHealth struct {
	Status       string   `json:"status"`
	Model        string   `json:"model"`
	AIKeyLoaded  bool     `json:"ai_key_loaded"`
	Capabilities []string `json:"routes"`
}

type aiService struct {
	repo      *repository.Repository
	ai        LLM
	model     string
	fallbacks []string
	log       *zap.Logger
	now       func() time.Time
}

func NewAIService(repo *repository.Repository, ai LLM, primary string, fallbacks []string, log *zap.Logger) AIService {
	return &aiService{repo: repo, ai: ai, model: primary, fallbacks: fallbacks, log: log.Named("ai"), now: time.Now}
}

// flagged is an item with at least one alert.
type flagged struct {
	item     model.Item
	alerts   []string
	velocity decimal.Decimal
	sold     int
}

func (f flagged) has(code string) bool {
	for _, a := range f.alerts {
		if a == code {
			return true
		}
	}
	return false
}

func (s *aiService) today() time.Time {
	now := s.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

// Suggestions flags items locally and asks the model for discounts on the
// flagged ones. When every completion attempt fails the local alerts are
// still returned together with ErrAIUnavailable.
func (s *aiService) Suggestions(ctx context.Context, storeID uuid.UUID, req SuggestionsRequest) (*SuggestionsResponse, error) {
	maxPct := defaultMaxDiscount
	if v := req.UserDiscountConfig.MaxDiscount; v != nil {
		maxPct = *v
	}
	defPct := defaultDiscount
	if v := req.UserDiscountConfig.DefaultDiscount; v != nil {
		defPct = *v
	}

	today := s.today()
	items, err := s.repo.Items.ListByStore(ctx, storeID)
	if err != nil {
		return nil, err
	}
	sales, err := s.repo.Sales.ListBetween(ctx, storeID, today.AddDate(0, 0, -velocityWindowDays), s.now())
	if err != nil {
		return nil, err
	}
	data := flagItems(items, sales, today)

	if len(data) == 0 {
		return &SuggestionsResponse{
			Alerts:              []StockAlert{},
			DiscountSuggestions: []DiscountSuggestion{},
			Insights:            "No alerts: All stock levels good, no expiring items, healthy sales.",
		}, nil
	}

	alerts := localAlerts(data, today)
	raw, err := s.askSuggestions(ctx, data, maxPct)
	if err != nil {
		s.log.Warn("suggestion completion failed", zap.Error(err))
		return &SuggestionsResponse{
			Error:               "AI provider failed. Returning computed alerts without AI suggestions.",
			Alerts:              alerts,
			DiscountSuggestions: []DiscountSuggestion{},
			Insights:            "AI unavailable, using local heuristics.",
		}, ErrAIUnavailable
	}

	parsed := parseSuggestions(raw, defPct)
	resp := &SuggestionsResponse{
		Alerts:              alerts,
		DiscountSuggestions: matchSuggestions(parsed.DiscountSuggestions, data, today, maxPct, defPct),
		Insights:            parsed.Insights,
		Summary:             summarize(len(items), data),
	}
	if resp.Insights == "" {
		resp.Insights = "AI analyzing your inventory patterns."
	}
	return resp, nil
}

func flagItems(items []model.Item, sales []model.Sale, today time.Time) []flagged {
	counts := map[uuid.UUID]int{}
	sold := map[uuid.UUID]int{}
	for _, sl := range sales {
		counts[sl.ItemID]++
		sold[sl.ItemID] += sl.Quantity
	}
	window := decimal.NewFromInt(velocityWindowDays)

	var out []flagged
	for _, it := range items {
		f := flagged{item: it, sold: sold[it.ID], velocity: decimal.NewFromInt(int64(counts[it.ID])).Div(window)}
		if it.IsLowStock() {
			f.alerts = append(f.alerts, AlertLowStock)
		}
		if days, ok := it.DaysToExpiry(today); ok {
			if days < 0 {
				f.alerts = append(f.alerts, AlertExpired)
			} else if days <= expiryWindowDays {
				f.alerts = append(f.alerts, AlertExpiringSoon)
			}
		}
		if f.velocity.LessThan(lowVelocity) && it.RackStock > 0 {
			f.alerts = append(f.alerts, AlertLowVelocity)
		}
		if len(f.alerts) > 0 {
			out = append(out, f)
		}
	}
	return out
}

func localAlerts(data []flagged, today time.Time) []StockAlert {
	out := make([]StockAlert, 0, len(data))
	for _, d := range data {
		it := d.item
		var msgs []string
		if d.has(AlertLowStock) {
			msgs = append(msgs, fmt.Sprintf("%s: Low stock (%d/%d)", it.Name, it.RackStock, it.Threshold))
		}
		if d.has(AlertExpired) {
			msgs = append(msgs, it.Name+": EXPIRED!")
		}
		if d.has(AlertExpiringSoon) {
			days, _ := it.DaysToExpiry(today)
			msgs = append(msgs, fmt.Sprintf("%s: Expiring in %d days", it.Name, days))
		}
		if d.has(AlertLowVelocity) {
			msgs = append(msgs, fmt.Sprintf("%s: Slow sales (%s/day)", it.Name, d.velocity.StringFixed(2)))
		}
		out = append(out, StockAlert{ItemID: it.ID, ItemName: it.Name, Message: strings.Join(msgs, "; ")})
	}
	return out
}

func (s *aiService) askSuggestions(ctx context.Context, data []flagged, maxPct int) (string, error) {
	var b strings.Builder
	for _, d := range data {
		fmt.Fprintf(&b, "Item: %s | Stock: %d/%d | Alerts: %s | SalesPerDay: %s | SoldTotal: %d\n",
			d.item.Name, d.item.RackStock, d.item.Threshold, strings.Join(d.alerts, ", "), d.velocity.StringFixed(2), d.sold)
	}
	prompt := fmt.Sprintf(`You are a retail-inventory AI. Return ONLY valid JSON, no markdown or extra text.

{
  "discountSuggestions": [
    {"itemName":"Aata","suggestedPercent":15,"applyQty":5,"reason":"Low stock"}
  ],
  "insights":"2-sentence analysis"
}

Data:
%s
Max discount: %d%%`, b.String(), maxPct)

	req := llm.ChatRequest{
		Model: s.model,
		Messages: []llm.Message{
			{Role: "system", Content: "You are a JSON API. Return ONLY valid JSON. Respond with well-formed JSON object."},
			{Role: "user", Content: prompt},
		},
		Temperature:    llm.Float(0.05),
		MaxTokens:      700,
		ResponseFormat: &llm.ResponseFormat{Type: "json_object"},
	}
	raw, err := s.ai.Complete(ctx, req, llm.Retry{MaxRetries: 2, InitialDelay: 800 * time.Millisecond})
	if err == nil {
		return raw, nil
	}
	if errors.Is(err, llm.ErrNotConfigured) || ctx.Err() != nil {
		return "", err
	}
	s.log.Info("retrying suggestions without response_format", zap.Error(err))
	req.ResponseFormat = nil
	return s.ai.Complete(ctx, req, llm.Retry{MaxRetries: 1, InitialDelay: time.Second})
}

type rawSuggestion struct {
	ItemName         string   `json:"itemName"`
	SuggestedPercent *float64 `json:"suggestedPercent"`
	ApplyQty         *float64 `json:"applyQty"`
	Reason           string   `json:"reason"`
}

type rawSuggestions struct {
	DiscountSuggestions []rawSuggestion `json:"discountSuggestions"`
	Insights            string          `json:"insights"`
}

// parseSuggestions decodes the model reply. Replies that are not the
// expected JSON fall back to picking "Item: name" lines.
func parseSuggestions(raw string, defPct int) rawSuggestions {
	var out rawSuggestions
	var probe map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &probe); err == nil {
		_, hasList := probe["discountSuggestions"]
		_, hasInsights := probe["insights"]
		if hasList && hasInsights && json.Unmarshal([]byte(raw), &out) == nil {
			return out
		}
	}

	out = rawSuggestions{Insights: "AI response not JSON, fallback insights."}
	pct, one := float64(defPct), 1.0
	for _, line := range strings.Split(raw, "\n") {
		if m := itemLineRegex.FindStringSubmatch(line); m != nil {
			out.DiscountSuggestions = append(out.DiscountSuggestions, rawSuggestion{
				ItemName:         strings.TrimSpace(m[1]),
				SuggestedPercent: &pct,
				ApplyQty:         &one,
				Reason:           "AI parsing fallback",
			})
		}
	}
	return out
}

func matchSuggestions(in []rawSuggestion, data []flagged, today time.Time, maxPct, defPct int) []DiscountSuggestion {
	byName := make(map[string]flagged, len(data))
	for _, d := range data {
		byName[normalizeName(d.item.Name)] = d
	}
	out := []DiscountSuggestion{}
	for _, sg := range in {
		d, ok := byName[normalizeName(sg.ItemName)]
		if !ok {
			continue
		}
		pct := defPct
		if sg.SuggestedPercent != nil {
			pct = int(math.Round(*sg.SuggestedPercent))
		}
		qty := 0
		if sg.ApplyQty != nil {
			qty = int(math.Round(*sg.ApplyQty))
		}
		ds := DiscountSuggestion{
			ItemID:           d.item.ID,
			ItemName:         d.item.Name,
			RackStock:        d.item.RackStock,
			Threshold:        d.item.Threshold,
			SalesVelocity:    d.velocity.StringFixed(2),
			TotalSales:       d.sold,
			SuggestedPercent: min(max(0, pct), maxPct),
			ApplyQty:         max(0, min(qty, d.item.RackStock)),
			Reason:           sg.Reason,
		}
		if days, ok := d.item.DaysToExpiry(today); ok {
			ds.DaysToExpiry = &days
		}
		if ds.Reason == "" {
			ds.Reason = "AI recommendation"
		}
		out = append(out, ds)
	}
	return out
}

func summarize(total int, data []flagged) *SuggestionSummary {
	sum := &SuggestionSummary{TotalItems: total, AlertsCount: len(data)}
	for _, d := range data {
		if d.has(AlertLowStock) {
			sum.LowStock++
		}
		if d.has(AlertExpired) || d.has(AlertExpiringSoon) {
			sum.Expiring++
		}
	}
	return sum
}

var festivalMocks = map[string][]string{
	"Pongal": {"Rice 5 kg", "Jaggery 2 kg", "Ghee 1 L", "Milk 2 L", "Coconut 2 pcs", "Sugarcane 2 sticks", "Turmeric 250 g", "Salt 1 kg"},
	"Lohri":  {"Peanuts 1 kg", "Sesame 500 g", "Jaggery 1 kg", "Rewri 500 g", "Popcorn 500 g", "Ghee 500 g", "Sattu 500 g", "Sugar 500 g"},
	"Diwali": {"Oil 5 L", "Diyas 100 pcs", "Sweets 2 kg", "Rangoli 500 g", "Crackers 1 box", "Sugar 1 kg", "Flour 5 kg", "Ghee 1 L"},
}

var defaultFestivalList = []string{"Rice 5 kg", "Oil 2 L", "Sugar 1 kg", "Tea 250 g", "Biscuits 500 g", "Salt 1 kg"}

// FestivalSuggestions tries each configured model in turn and falls back
// to a fixed shopping list.
func (s *aiService) FestivalSuggestions(ctx context.Context, req FestivalRequest) ([]string, error) {
	if err := validator.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	prompt := fmt.Sprintf(`You are a grocery AI. Return ONLY this JSON object (no extra text):

{
  "suggestions": ["Rice 5 kg", "Jaggery 2 kg", "Ghee 1 L"]
}

Festival: %q in %d days.
Give 8-12 items with quantities.`, req.FestivalName, req.DaysUntil)

	for _, m := range append([]string{s.model}, s.fallbacks...) {
		raw, err := s.ai.Complete(ctx, llm.ChatRequest{
			Model:       m,
			Messages:    []llm.Message{{Role: "user", Content: prompt}},
			Temperature: llm.Float(0.1),
			MaxTokens:   400,
		}, llm.Retry{MaxRetries: 1, InitialDelay: 700 * time.Millisecond})
		if err != nil {
			s.log.Debug("festival model failed", zap.String("model", m), zap.Error(err))
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			continue
		}
		if list := extractSuggestions(raw); len(list) > 0 {
			return list, nil
		}
	}

	if list, ok := festivalMocks[req.FestivalName]; ok {
		return list, nil
	}
	return defaultFestivalList, nil
}

func extractSuggestions(raw string) []string {
	obj := jsonObject.FindString(raw)
	if obj == "" {
		return nil
	}
	var parsed struct {
		Suggestions []string `json:"suggestions"`
	}
	if err := json.Unmarshal([]byte(obj), &parsed); err != nil {
		return nil
	}
	return parsed.Suggestions
}

func (s *aiService) ApplyDiscount(ctx context.Context, storeID uuid.UUID, req ApplyDiscountRequest) (*model.Item, error) {
	if err := validator.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	it, err := s.repo.Items.FindByID(ctx, storeID, req.ItemID)
	if err != nil {
		return nil, itemErr(err)
	}
	if err := s.repo.Items.ApplyDiscount(ctx, it.ID, *req.DiscountPercent, *req.ApplyQty); err != nil {
		return nil, err
	}
	it.DiscountPercent = *req.DiscountPercent
	it.DiscountQty = *req.ApplyQty
	return it, nil
}

func (s *aiService) Health(ctx context.Context) (*AIHealth, error) {
	models, err := s.ai.Models(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAIUnavailable, err)
	}
	h := &AIHealth{
		Status:      "OpenRouter ready!",
		Model:       "Model not found",
		AIKeyLoaded: s.ai.Configured(),
		Capabilities: []string{
			"POST /suggestions",
			"POST /festival-suggestions",
			"POST /apply-discount",
			"GET /test",
		},
	}
	for _, m := range models {
		if m == s.model {
			h.Model = m
			break
		}
	}
	return h, nil
}

func normalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
