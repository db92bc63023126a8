package handler

import (
	"ai-mart-inventory/internal/middleware"
	"ai-mart-inventory/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type SaleHandler struct {
	base
	sales  service.SaleService
	orders service.OrderService
}

func NewSaleHandler(sales service.SaleService, orders service.OrderService, log *zap.Logger) *SaleHandler {
	return &SaleHandler{base: base{log}, sales: sales, orders: orders}
}

// Record registers a sale and takes it off the shelf
// POST /api/v1/sales
func (h *SaleHandler) Record(c *fiber.Ctx) error {
	var req service.RecordSaleRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}
	res, err := h.sales.Record(c.UserContext(), middleware.StoreID(c), req, actor(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

func (h *SaleHandler) List(c *fiber.Ctx) error {
	sales, err := h.sales.ListRecent(c.UserContext(), middleware.StoreID(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(sales)
}

func (h *SaleHandler) Orders(c *fiber.Ctx) error {
	orders, err := h.orders.List(c.UserContext(), middleware.StoreID(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(orders)
}
