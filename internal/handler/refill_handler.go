package handler

import (
	"context"

	"ai-mart-inventory/internal/middleware"
	"ai-mart-inventory/internal/refill"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RefillRunner runs one auto-refill pass.
type RefillRunner interface {
	Run(ctx context.Context, storeID uuid.UUID, opts refill.Options) (*refill.Result, error)
}

type RefillHandler struct {
	base
	engine RefillRunner
}

func NewRefillHandler(engine RefillRunner, log *zap.Logger) *RefillHandler {
	return &RefillHandler{base: base{log}, engine: engine}
}

// Trigger runs the refill engine for the caller's store. Any non-empty
// ?dry value previews.
// POST /api/v1/auto-refill/trigger
func (h *RefillHandler) Trigger(c *fiber.Ctx) error {
	dry := c.Query("dry") != ""
	res, err := h.engine.Run(c.UserContext(), middleware.StoreID(c), refill.Options{DryRun: dry})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(res)
}
