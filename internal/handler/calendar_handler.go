package handler

import (
	"context"

	"ai-mart-inventory/internal/calendar"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const upcomingDays = 15

type FestivalSource interface {
	Festivals(ctx context.Context) ([]calendar.Festival, error)
	Upcoming(ctx context.Context, days int) ([]calendar.Festival, error)
}

type CalendarHandler struct {
	base
	source FestivalSource
}

func NewCalendarHandler(source FestivalSource, log *zap.Logger) *CalendarHandler {
	return &CalendarHandler{base: base{log}, source: source}
}

func (h *CalendarHandler) Festivals(c *fiber.Ctx) error {
	list, err := h.source.Festivals(c.UserContext())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(list)
}

func (h *CalendarHandler) Upcoming(c *fiber.Ctx) error {
	list, err := h.source.Upcoming(c.UserContext(), upcomingDays)
	if err != nil {
		return h.fail(c, err)
	}
	if list == nil {
		list = []calendar.Festival{}
	}
	return c.JSON(list)
}
