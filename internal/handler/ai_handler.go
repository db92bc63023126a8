package handler

import (
	"errors"
	"fmt"

	"ai-mart-inventory/internal/middleware"
	"ai-mart-inventory/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type AIHandler struct {
	base
	ai   service.AIService
	chat service.ChatService
}

func NewAIHandler(ai service.AIService, chat service.ChatService, log *zap.Logger) *AIHandler {
	return &AIHandler{base: base{log}, ai: ai, chat: chat}
}

// Suggestions answers 502 with the locally computed alerts when the
// provider is down.
func (h *AIHandler) Suggestions(c *fiber.Ctx) error {
	var req service.SuggestionsRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid JSON")
		}
	}
	resp, err := h.ai.Suggestions(c.UserContext(), middleware.StoreID(c), req)
	if errors.Is(err, service.ErrAIUnavailable) && resp != nil {
		return c.Status(fiber.StatusBadGateway).JSON(resp)
	}
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(resp)
}

func (h *AIHandler) FestivalSuggestions(c *fiber.Ctx) error {
	var req service.FestivalRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}
	list, err := h.ai.FestivalSuggestions(c.UserContext(), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"suggestions": list})
}

func (h *AIHandler) ApplyDiscount(c *fiber.Ctx) error {
	var req service.ApplyDiscountRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}
	item, err := h.ai.ApplyDiscount(c.UserContext(), middleware.StoreID(c), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Discount %d%% applied to %d units of %s", item.DiscountPercent, item.DiscountQty, item.Name),
		"item":    item,
	})
}

func (h *AIHandler) Health(c *fiber.Ctx) error {
	health, err := h.ai.Health(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "AI key invalid or OpenRouter unreachable"})
	}
	return c.JSON(health)
}

// Chat answers a free-form question about the store
// POST /api/v1/chat
func (h *AIHandler) Chat(c *fiber.Ctx) error {
	var req struct {
		Query string `json:"query"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}
	reply, err := h.chat.Ask(c.UserContext(), middleware.StoreID(c), req.Query)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"reply": reply})
}
