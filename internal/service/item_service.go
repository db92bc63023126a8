package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"ai-mart-inventory/internal/event"
	"ai-mart-inventory/internal/llm"
	"ai-mart-inventory/internal/model"
	"ai-mart-inventory/internal/repository"
	"ai-mart-inventory/pkg/validator"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultDisplayCapacity = 20

var defaultCatalog = map[string][]string{
	model.StoreTypeKirana: {
		"Rice", "Sugar", "Salt", "Tea", "Oil", "Wheat",
		"Biscuits", "Soap", "Milk", "Chocolates",
	},
	model.StoreTypeGeneral: {
		"Blue Pen", "Notebook", "Stapler", "Glue Stick", "Pencil", "Eraser",
		"Marker", "Highlighter", "Scissors", "Tape", "Calculator", "Folders",
		"Paper Clips", "Sharpener", "Ruler", "Desk Organizer", "Sticky Notes",
		"Whiteboard Marker", "Envelope", "Notebook Pack",
	},
}

type ItemService interface {
	List(ctx context.Context, storeID uuid.UUID, f repository.ItemFilter) ([]model.Item, error)
	Create(ctx context.Context, storeID uuid.UUID, req CreateItemRequest, actor string) (*model.Item, error)
	Get(ctx context.Context, storeID, id uuid.UUID) (*model.Item, error)
	Update(ctx context.Context, storeID, id uuid.UUID, req UpdateItemRequest, actor string) (*model.Item, error)
	Delete(ctx context.Context, storeID, id uuid.UUID) error
	Preload(ctx context.Context, storeID uuid.UUID, storeType string) ([]model.Item, error)
	Alerts(ctx context.Context, storeID uuid.UUID) ([]ItemAlert, error)
	Recommendation(ctx context.Context, storeID, id uuid.UUID) (*Recommendation, error)
}

type CreateItemRequest struct {
	Name            string     `json:"name" validate:"required"`
	StoreType       string     `json:"store_type" validate:"store_type"`
	Rack            string     `json:"rack"`
	TotalStock      int        `json:"total_stock" validate:"gte=0"`
	RackStock       int        `json:"rack_stock" validate:"gte=0"`
	Threshold       *int       `json:"threshold" validate:"omitempty,gte=0"`
	DisplayCapacity *int       `json:"display_capacity" validate:"omitempty,gte=0"`
	AutoRefill      *bool      `json:"auto_refill"`
	ExpiryDate      *time.Time `json:"expiry_date"`
}

// UpdateItemRequest carries only the fields a client may change. Nil
// fields are left untouched.
type UpdateItemRequest struct {
	Name            *string    `json:"name"`
	SKU             *string    `json:"sku"`
	Rack            *string    `json:"rack"`
	TotalStock      *int       `json:"total_stock" validate:"omitempty,gte=0"`
	RackStock       *int       `json:"rack_stock" validate:"omitempty,gte=0"`
	Threshold       *int       `json:"threshold" validate:"omitempty,gte=0"`
	DisplayCapacity *int       `json:"display_capacity" validate:"omitempty,gte=0"`
	ExpiryDate      *time.Time `json:"expiry_date"`
	StoreType       *string    `json:"store_type" validate:"omitempty,store_type"`
}

type ItemAlert struct {
	ItemID  uuid.UUID `json:"item_id"`
	Message string    `json:"message"`
}

type Recommendation struct {
	SuggestedQty int    `json:"suggested_qty"`
	Explanation  string `json:"explanation"`
}

type itemService struct {
	repo   *repository.Repository
	ai     llm.Completer
	model  string
	events event.Publisher
	log    *zap.Logger
}

func NewItemService(repo *repository.Repository, ai llm.Completer, aiModel string, events event.Publisher, log *zap.Logger) ItemService {
	return &itemService{repo: repo, ai: ai, model: aiModel, events: events, log: log.Named("items")}
}

func (s *itemService) List(ctx context.Context, storeID uuid.UUID, f repository.ItemFilter) ([]model.Item, error) {
	return s.repo.Items.List(ctx, storeID, f)
}

func (s *itemService) Create(ctx context.Context, storeID uuid.UUID, req CreateItemRequest, actor string) (*model.Item, error) {
	if err := validator.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	storeType := req.StoreType
	if storeType == "" {
		storeType = model.StoreTypeKirana
	}

	item := &model.Item{
		StoreID:     storeID,
		StoreType:   storeType,
		Name:        strings.TrimSpace(req.Name),
		SKU:         generateSKU(storeType, time.Now()),
		Rack:        req.Rack,
		TotalStock:  req.TotalStock,
		RackStock:   req.RackStock,
		Threshold:   model.DefaultThreshold,
		AutoRefill:  true,
		ExpiryDate:  req.ExpiryDate,
		UserCreated: true,
	}
	if item.Rack == "" {
		item.Rack = model.DefaultRack
	}
	if req.Threshold != nil {
		item.Threshold = *req.Threshold
	}
	capacity := defaultDisplayCapacity
	if req.DisplayCapacity != nil {
		capacity = *req.DisplayCapacity
	}
	item.DisplayCapacity = &capacity
	if req.AutoRefill != nil {
		item.AutoRefill = *req.AutoRefill
	}
	item.CreatedBy = actor
	item.UpdatedBy = actor

	if err := s.repo.Items.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *itemService) Get(ctx context.Context, storeID, id uuid.UUID) (*model.Item, error) {
	item, err := s.repo.Items.FindByID(ctx, storeID, id)
	if err != nil {
		return nil, itemErr(err)
	}
	return item, nil
}

func (s *itemService) Update(ctx context.Context, storeID, id uuid.UUID, req UpdateItemRequest, actor string) (*model.Item, error) {
	if err := validator.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	updates := map[string]interface{}{"updated_by": actor}
	set := func(col string, v any) { updates[col] = v }
	if req.Name != nil {
		set("name", *req.Name)
	}
	if req.SKU != nil {
		set("sku", *req.SKU)
	}
	if req.Rack != nil {
		set("rack", *req.Rack)
	}
	if req.TotalStock != nil {
		set("total_stock", *req.TotalStock)
	}
	if req.RackStock != nil {
		set("rack_stock", *req.RackStock)
	}
	if req.Threshold != nil {
		set("threshold", *req.Threshold)
	}
	if req.DisplayCapacity != nil {
		set("display_capacity", *req.DisplayCapacity)
	}
	if req.ExpiryDate != nil {
		set("expiry_date", *req.ExpiryDate)
	}
	if req.StoreType != nil {
		set("store_type", *req.StoreType)
	}

	item, err := s.repo.Items.Update(ctx, storeID, id, updates)
	if err != nil {
		return nil, itemErr(err)
	}
	s.events.Publish(ctx, stockEvent(event.ActionItemUpdated, storeID, item, item.Name+" updated"))
	return item, nil
}

// Delete removes the item together with its sales and orders.
func (s *itemService) Delete(ctx context.Context, storeID, id uuid.UUID) error {
	err := s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		if _, err := tx.Items.FindByID(ctx, storeID, id); err != nil {
			return err
		}
		if err := tx.Sales.DeleteByItem(ctx, id); err != nil {
			return err
		}
		if err := tx.Orders.DeleteByItem(ctx, id); err != nil {
			return err
		}
		return tx.Items.Delete(ctx, storeID, id)
	})
	if err != nil {
		return itemErr(err)
	}
	s.events.Publish(ctx, stockEvent(event.ActionItemDeleted, storeID, map[string]any{"item_id": id}, ""))
	return nil
}

// Preload inserts the default catalog entries missing from the store and
// returns every item of that store type.
func (s *itemService) Preload(ctx context.Context, storeID uuid.UUID, storeType string) ([]model.Item, error) {
	storeType = normalizeStoreType(storeType)
	names, ok := defaultCatalog[storeType]
	if !ok {
		return nil, fmt.Errorf("%w: invalid store type", ErrInvalidInput)
	}

	existing, err := s.repo.Items.List(ctx, storeID, repository.ItemFilter{StoreType: storeType})
	if err != nil {
		return nil, err
	}
	have := make(map[string]bool, len(existing))
	for _, it := range existing {
		have[strings.ToLower(it.Name)] = true
	}

	used := map[string]bool{}
	for _, name := range names {
		if have[strings.ToLower(name)] {
			continue
		}
		sku := preloadSKU(storeType)
		for used[sku] {
			sku = preloadSKU(storeType)
		}
		used[sku] = true

		capacity := defaultDisplayCapacity
		item := &model.Item{
			StoreID:         storeID,
			StoreType:       storeType,
			Name:            name,
			SKU:             sku,
			Rack:            model.DefaultRack,
			Threshold:       model.DefaultThreshold,
			DisplayCapacity: &capacity,
			AutoRefill:      true,
		}
		if err := s.repo.Items.Create(ctx, item); err != nil {
			s.log.Warn("preload item skipped", zap.String("name", name), zap.Error(err))
		}
	}
	return s.repo.Items.List(ctx, storeID, repository.ItemFilter{StoreType: storeType})
}

// Alerts phrases one message per low-stock item. A failed completion
// falls back to a fixed message for that item.
func (s *itemService) Alerts(ctx context.Context, storeID uuid.UUID) ([]ItemAlert, error) {
	items, err := s.repo.Items.ListLowStock(ctx, storeID)
	if err != nil {
		return nil, err
	}
	alerts := make([]ItemAlert, 0, len(items))
	for _, it := range items {
		prompt := fmt.Sprintf(
			"Write one short, actionable low-stock alert for a shop owner. Item %q on rack %s has %d units on the shelf (threshold %d). Suggest refilling about %d units.",
			it.Name, it.Rack, it.RackStock, it.Threshold, max(1, it.Threshold*2),
		)
		msg, err := s.ai.Complete(ctx, llm.ChatRequest{
			Model:     s.model,
			Messages:  []llm.Message{{Role: "user", Content: prompt}},
			MaxTokens: 80,
		}, llm.DefaultRetry)
		if err != nil || msg == "" {
			s.log.Debug("alert completion failed", zap.String("item_id", it.ID.String()), zap.Error(err))
			msg = fmt.Sprintf("Could not generate alert for %s. Please check manually.", it.Name)
		}
		alerts = append(alerts, ItemAlert{ItemID: it.ID, Message: msg})
	}
	return alerts, nil
}

func (s *itemService) Recommendation(ctx context.Context, storeID, id uuid.UUID) (*Recommendation, error) {
	it, err := s.repo.Items.FindByID(ctx, storeID, id)
	if err != nil {
		return nil, itemErr(err)
	}
	capacity := it.Capacity()
	qty := SuggestRefill(it.RackStock, it.TotalStock, it.Threshold, capacity)
	rec := &Recommendation{
		SuggestedQty: qty,
		Explanation: fmt.Sprintf("Algorithmic suggestion: refill %d units (rack %d/%d, threshold %d).",
			qty, it.RackStock, capacity, it.Threshold),
	}

	prompt := fmt.Sprintf(
		"You are an assistant for a small shop. For item %q with rack stock %d, total stock %d, threshold %d, and display capacity %d, recommend a concise number of units to refill and one short reason.",
		it.Name, it.RackStock, it.TotalStock, it.Threshold, capacity,
	)
	text, err := s.ai.Complete(ctx, llm.ChatRequest{
		Model:     s.model,
		Messages:  []llm.Message{{Role: "user", Content: prompt}},
		MaxTokens: 80,
	}, llm.DefaultRetry)
	if err == nil && text != "" {
		rec.Explanation = text
	}
	return rec, nil
}

// SuggestRefill is the shelf top-up suggested to an operator: the gap to
// twice the threshold, capped by the free shelf space and the backing stock.
func SuggestRefill(rack, total, threshold, capacity int) int {
	qty := max(0, min(capacity-rack, max(0, threshold*2-rack)))
	return min(qty, total)
}

func generateSKU(storeType string, now time.Time) string {
	prefix := "XX"
	switch storeType {
	case model.StoreTypeKirana:
		prefix = "KP"
	case model.StoreTypeGeneral:
		prefix = "GP"
	}
	return fmt.Sprintf("%s-%s-%03d", prefix, lastDigits(now), rand.IntN(1000))
}

func preloadSKU(storeType string) string {
	return fmt.Sprintf("%sP-%s-%d", storeType[:1], lastDigits(time.Now()), rand.IntN(1000))
}

func lastDigits(now time.Time) string {
	ms := strconv.FormatInt(now.UnixMilli(), 10)
	return ms[len(ms)-4:]
}

func normalizeStoreType(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

func itemErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrItemNotFound
	}
	return err
}
