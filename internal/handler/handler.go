// Package handler exposes the services over HTTP with fiber.
package handler

import (
	"errors"

	"ai-mart-inventory/internal/middleware"
	"ai-mart-inventory/internal/refill"
	"ai-mart-inventory/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type base struct {
	log *zap.Logger
}

// errorStatus maps service errors onto HTTP status codes.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrInvalidResetToken),
		errors.Is(err, service.ErrInsufficientStock),
		errors.Is(err, service.ErrNoRecipient):
		return fiber.StatusBadRequest
	case errors.Is(err, service.ErrInvalidCredentials):
		return fiber.StatusUnauthorized
	case errors.Is(err, service.ErrItemNotFound),
		errors.Is(err, service.ErrStoreNotFound),
		errors.Is(err, refill.ErrStoreNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, service.ErrAIUnavailable):
		return fiber.StatusBadGateway
	}
	return fiber.StatusInternalServerError
}

func (b base) fail(c *fiber.Ctx, err error) error {
	status := errorStatus(err)
	if status == fiber.StatusInternalServerError {
		b.log.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
		return c.Status(status).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

func paramID(c *fiber.Ctx) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params("id"))
	return id, err == nil
}

func actor(c *fiber.Ctx) string {
	return middleware.UserID(c).String()
}
