package handler

import (
	"ai-mart-inventory/internal/middleware"
	"ai-mart-inventory/internal/model"
	"ai-mart-inventory/internal/ws"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Auth      *AuthHandler
	Items     *ItemHandler
	Sales     *SaleHandler
	Refill    *RefillHandler
	Stores    *StoreHandler
	Analytics *AnalyticsHandler
	Calendar  *CalendarHandler
	AI        *AIHandler
	Hub       *ws.Hub
}

// Register mounts every route on app. requireAuth guards everything
// except the auth endpoints and the health check.
func Register(app *fiber.App, h Handlers, requireAuth fiber.Handler) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true, "service": "ai-mart-inventory"})
	})

	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/register", h.Auth.Register)
	auth.Post("/login", h.Auth.Login)
	auth.Post("/google", h.Auth.Google)
	auth.Post("/forgot-password", h.Auth.ForgotPassword)
	auth.Post("/reset-password/:token", h.Auth.ResetPassword)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", requireAuth)

	items := protected.Group("/items")
	items.Get("/", h.Items.List)
	items.Post("/", h.Items.Create)
	items.Get("/preload", h.Items.Preload)
	items.Get("/alerts", h.Items.Alerts)
	items.Get("/:id/recommendation", h.Items.Recommendation)
	items.Get("/:id", h.Items.Get)
	items.Put("/:id", h.Items.Update)
	items.Delete("/:id", h.Items.Delete)

	protected.Get("/sales", h.Sales.List)
	protected.Post("/sales", h.Sales.Record)
	protected.Get("/orders", h.Sales.Orders)

	protected.Post("/auto-refill/trigger", middleware.RequireRole(model.RoleOwner), h.Refill.Trigger)

	stores := protected.Group("/stores")
	stores.Get("/settings", h.Stores.Settings)
	stores.Put("/settings", middleware.RequireRole(model.RoleOwner), h.Stores.UpdateSettings)
	stores.Get("/alerts", h.Stores.LastAlert)
	stores.Post("/test-alerts", h.Stores.TestAlerts)

	analytics := protected.Group("/analytics")
	analytics.Get("/sales-trend", h.Analytics.SalesTrend)
	analytics.Get("/top-items", h.Analytics.TopItems)
	analytics.Get("/lowest-stock", h.Analytics.LowestStock)

	cal := protected.Group("/calendar")
	cal.Get("/festivals", h.Calendar.Festivals)
	cal.Get("/upcoming", h.Calendar.Upcoming)

	ai := protected.Group("/ai")
	ai.Post("/suggestions", h.AI.Suggestions)
	ai.Post("/festival-suggestions", h.AI.FestivalSuggestions)
	ai.Post("/apply-discount", h.AI.ApplyDiscount)
	ai.Get("/test", h.AI.Health)
	protected.Post("/chat", h.AI.Chat)

	if h.Hub != nil {
		app.Get("/ws", upgradeOnly, middleware.TokenFromQuery(), requireAuth, liveEvents(h.Hub))
	}
}
