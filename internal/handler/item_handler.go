package handler

import (
	"ai-mart-inventory/internal/middleware"
	"ai-mart-inventory/internal/repository"
	"ai-mart-inventory/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type ItemHandler struct {
	base
	service service.ItemService
}

func NewItemHandler(s service.ItemService, log *zap.Logger) *ItemHandler {
	return &ItemHandler{base: base{log}, service: s}
}

func (h *ItemHandler) List(c *fiber.Ctx) error {
	items, err := h.service.List(c.UserContext(), middleware.StoreID(c), repository.ItemFilter{
		StoreType: c.Query("store_type"),
		Search:    c.Query("search"),
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(items)
}

func (h *ItemHandler) Create(c *fiber.Ctx) error {
	var req service.CreateItemRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}
	item, err := h.service.Create(c.UserContext(), middleware.StoreID(c), req, actor(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

func (h *ItemHandler) Get(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return badRequest(c, "Invalid item id")
	}
	item, err := h.service.Get(c.UserContext(), middleware.StoreID(c), id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(item)
}

func (h *ItemHandler) Update(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return badRequest(c, "Invalid item id")
	}
	var req service.UpdateItemRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}
	item, err := h.service.Update(c.UserContext(), middleware.StoreID(c), id, req, actor(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(item)
}

func (h *ItemHandler) Delete(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return badRequest(c, "Invalid item id")
	}
	if err := h.service.Delete(c.UserContext(), middleware.StoreID(c), id); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

// Preload fills in the default catalog for ?store_type=
func (h *ItemHandler) Preload(c *fiber.Ctx) error {
	storeType := c.Query("store_type")
	if storeType == "" {
		return badRequest(c, "store_type is required")
	}
	items, err := h.service.Preload(c.UserContext(), middleware.StoreID(c), storeType)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"items": items})
}

func (h *ItemHandler) Alerts(c *fiber.Ctx) error {
	alerts, err := h.service.Alerts(c.UserContext(), middleware.StoreID(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"alerts": alerts})
}

func (h *ItemHandler) Recommendation(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return badRequest(c, "Invalid item id")
	}
	rec, err := h.service.Recommendation(c.UserContext(), middleware.StoreID(c), id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(rec)
}
