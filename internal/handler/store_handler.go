package handler

import (
	"ai-mart-inventory/internal/middleware"
	"ai-mart-inventory/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type StoreHandler struct {
	base
	stores service.StoreService
	alerts service.AlertService
}

func NewStoreHandler(stores service.StoreService, alerts service.AlertService, log *zap.Logger) *StoreHandler {
	return &StoreHandler{base: base{log}, stores: stores, alerts: alerts}
}

func (h *StoreHandler) Settings(c *fiber.Ctx) error {
	s, err := h.stores.Settings(c.UserContext(), middleware.StoreID(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"settings": s})
}

func (h *StoreHandler) UpdateSettings(c *fiber.Ctx) error {
	var req service.UpdateSettingsRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}
	s, err := h.stores.UpdateSettings(c.UserContext(), middleware.StoreID(c), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"settings": s})
}

func (h *StoreHandler) LastAlert(c *fiber.Ctx) error {
	a, err := h.stores.LastAlert(c.UserContext(), middleware.StoreID(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(a)
}

// TestAlerts sends tonight's alert email right away.
func (h *StoreHandler) TestAlerts(c *fiber.Ctx) error {
	report, err := h.alerts.SendStore(c.UserContext(), middleware.StoreID(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Alert email sent", "report": report})
}
