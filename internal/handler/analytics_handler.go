package handler

import (
	"ai-mart-inventory/internal/middleware"
	"ai-mart-inventory/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type AnalyticsHandler struct {
	base
	service service.AnalyticsService
}

func NewAnalyticsHandler(s service.AnalyticsService, log *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{base: base{log}, service: s}
}

// SalesTrend returns per-day sales of the last 7 days
func (h *AnalyticsHandler) SalesTrend(c *fiber.Ctx) error {
	data, err := h.service.SalesTrend(c.UserContext(), middleware.StoreID(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(data)
}

func (h *AnalyticsHandler) TopItems(c *fiber.Ctx) error {
	data, err := h.service.TopItems(c.UserContext(), middleware.StoreID(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(data)
}

func (h *AnalyticsHandler) LowestStock(c *fiber.Ctx) error {
	item, err := h.service.LowestStock(c.UserContext(), middleware.StoreID(c))
	if err != nil {
		return h.fail(c, err)
	}
	if item == nil {
		return c.JSON(fiber.Map{})
	}
	return c.JSON(item)
}
