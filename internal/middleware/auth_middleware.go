package middleware

import (
	"strings"

	"ai-mart-inventory/internal/model"
	"ai-mart-inventory/internal/repository"
	"ai-mart-inventory/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Locals keys set by RequireAuth.
const (
	LocalUserID  = "user_id"
	LocalEmail   = "user_email"
	LocalRole    = "user_role"
	LocalStoreID = "store_id"
)

// RequireAuth validates the bearer token, loads the user and resolves the
// store the request acts on: the token's store, else the user's store.
func RequireAuth(tokens *jwt.Manager, users repository.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, ok := bearer(c.Get(fiber.HeaderAuthorization))
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing or malformed authorization token. Use: Bearer <token>"})
		}

		claims, err := tokens.ValidateToken(tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired token"})
		}

		user, err := users.FindByID(c.UserContext(), claims.UserID)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User not found"})
		}
		if !model.ValidRole(user.Role) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Unknown role"})
		}

		storeID := claims.StoreID
		if storeID == nil {
			storeID = user.StoreID
		}
		if storeID == nil || *storeID == uuid.Nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No store associated with this account"})
		}

		c.Locals(LocalUserID, user.ID)
		c.Locals(LocalEmail, user.Email)
		c.Locals(LocalRole, user.Role)
		c.Locals(LocalStoreID, *storeID)
		return c.Next()
	}
}

// RequireRole rejects callers whose role is not one of roles.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, _ := c.Locals(LocalRole).(string)
		for _, r := range roles {
			if r == role {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Forbidden: requires role " + strings.Join(roles, " or "),
		})
	}
}

// TokenFromQuery lets websocket upgrades carry the token as ?token=,
// since browsers cannot set headers on them.
func TokenFromQuery() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Get(fiber.HeaderAuthorization) == "" {
			if t := c.Query("token"); t != "" {
				c.Request().Header.Set(fiber.HeaderAuthorization, "Bearer "+t)
			}
		}
		return c.Next()
	}
}

func bearer(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	return parts[1], true
}

// StoreID returns the store resolved by RequireAuth.
func StoreID(c *fiber.Ctx) uuid.UUID {
	id, _ := c.Locals(LocalStoreID).(uuid.UUID)
	return id
}

// UserID returns the authenticated user id.
func UserID(c *fiber.Ctx) uuid.UUID {
	id, _ := c.Locals(LocalUserID).(uuid.UUID)
	return id
}
