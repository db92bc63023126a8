package handler

import (
	"ai-mart-inventory/internal/middleware"
	"ai-mart-inventory/internal/ws"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// upgradeOnly rejects plain HTTP requests to the websocket endpoint.
func upgradeOnly(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return c.SendStatus(fiber.StatusUpgradeRequired)
}

// liveEvents registers the connection with the hub for the store the
// caller authenticated for, and keeps it until the client goes away.
func liveEvents(hub *ws.Hub) fiber.Handler {
	return websocket.New(func(c *websocket.Conn) {
		storeID, _ := c.Locals(middleware.LocalStoreID).(uuid.UUID)
		client := &ws.Client{Conn: c, StoreID: storeID}
		hub.Register <- client
		defer func() { hub.Unregister <- client }()

		for {
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	})
}
