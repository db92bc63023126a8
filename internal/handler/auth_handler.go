package handler

import (
	"ai-mart-inventory/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type AuthHandler struct {
	base
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{base: base{log}, authService: authService}
}

// Register creates an owner account and its store
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req service.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}
	resp, err := h.authService.Register(c.UserContext(), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Login handles user authentication
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req service.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}
	if req.Email == "" || req.Password == "" {
		return badRequest(c, "Email and password are required")
	}
	resp, err := h.authService.Login(c.UserContext(), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(resp)
}

// POST /api/v1/auth/google
func (h *AuthHandler) Google(c *fiber.Ctx) error {
	var req service.GoogleLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}
	resp, err := h.authService.GoogleLogin(c.UserContext(), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(resp)
}

// POST /api/v1/auth/forgot-password
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}
	if err := h.authService.ForgotPassword(c.UserContext(), req.Email); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Reset email sent"})
}

// POST /api/v1/auth/reset-password/:token
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req struct {
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}
	if err := h.authService.ResetPassword(c.UserContext(), c.Params("token"), req.Password); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Password reset successful"})
}
