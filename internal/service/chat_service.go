package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"ai-mart-inventory/internal/llm"
	"ai-mart-inventory/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	chatNotConfigured = "I'm sorry, my brain is not configured. Please contact the administrator."
	chatUnreachable   = "I'm sorry, I'm having trouble connecting to my brain. Please try again."
	chatEmpty         = "I'm sorry, I received an unusual response. Could you try rephrasing?"
)

// ChatService answers free-form questions about a store's stock and
// today's sales.
type ChatService interface {
	Ask(ctx context.Context, storeID uuid.UUID, query string) (string, error)
}

type chatService struct {
	repo  *repository.Repository
	ai    llm.Completer
	model string
	log   *zap.Logger
	now   func() time.Time
}

func NewChatService(repo *repository.Repository, ai llm.Completer, chatModel string, log *zap.Logger) ChatService {
	return &chatService{repo: repo, ai: ai, model: chatModel, log: log.Named("chat"), now: time.Now}
}

type chatItem struct {
	Name       string     `json:"name"`
	SKU        string     `json:"sku"`
	Rack       string     `json:"rack"`
	TotalStock int        `json:"totalStock"`
	RackStock  int        `json:"rackStock"`
	Threshold  int        `json:"threshold"`
	ExpiryDate *time.Time `json:"expiryDate,omitempty"`
}

type chatSale struct {
	Item     string    `json:"item"`
	Quantity int       `json:"quantity"`
	At       time.Time `json:"createdAt"`
}

func (s *chatService) Ask(ctx context.Context, storeID uuid.UUID, query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", fmt.Errorf("%w: query is required", ErrInvalidInput)
	}

	items, err := s.repo.Items.ListByStore(ctx, storeID)
	if err != nil {
		return "", err
	}
	now := s.now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	sales, err := s.repo.Sales.ListBetween(ctx, storeID, start, start.AddDate(0, 0, 1))
	if err != nil {
		return "", err
	}

	data := struct {
		Items []chatItem `json:"items"`
		Sales []chatSale `json:"sales"`
	}{Items: make([]chatItem, 0, len(items)), Sales: make([]chatSale, 0, len(sales))}
	for _, it := range items {
		data.Items = append(data.Items, chatItem{
			Name: it.Name, SKU: it.SKU, Rack: it.Rack,
			TotalStock: it.TotalStock, RackStock: it.RackStock, Threshold: it.Threshold,
			ExpiryDate: it.ExpiryDate,
		})
	}
	for _, sl := range sales {
		cs := chatSale{Quantity: sl.Quantity, At: sl.CreatedAt}
		if sl.Item != nil {
			cs.Item = sl.Item.Name
		}
		data.Sales = append(data.Sales, cs)
	}
	blob, err := json.Marshal(data)
	if err != nil {
		return "", err
	}

	system := fmt.Sprintf(`You are "AI Mart Assistant", a helpful chatbot for a Kirana (local grocery) shop owner.
Answer questions about the shop's inventory and sales based ONLY on the JSON data below.

RULES:
1. Reply in the same language as the user's query (English, Hindi or Telugu).
2. Base every answer strictly on the data. Do not make up information.
3. Today is %s. Use it to decide whether items are expired or expiring soon.
4. Be helpful, concise, and friendly.
5. An item is low stock when its totalStock is less than its threshold.
6. If asked about an item not in the data, say you have no data for it.

DATA:
%s`, now.Format("02/01/2006"), blob)

	reply, err := s.ai.Complete(ctx, llm.ChatRequest{
		Model: s.model,
		Messages: []llm.Message{
			{Role: "system", Content: system},
			{Role: "user", Content: query},
		},
	}, llm.Retry{MaxRetries: 3, InitialDelay: time.Second})
	switch {
	case errors.Is(err, llm.ErrNotConfigured):
		return chatNotConfigured, nil
	case err != nil:
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		s.log.Warn("chat completion failed", zap.String("store_id", storeID.String()), zap.Error(err))
		return chatUnreachable, nil
	case reply == "":
		return chatEmpty, nil
	}
	return reply, nil
}
