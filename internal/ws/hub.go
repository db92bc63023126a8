package ws

import (
	"context"
	"encoding/json"
	"sync"

	"ai-mart-inventory/internal/event"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Conn is the part of a websocket connection the hub writes to.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Client is one live connection, scoped to the store it authenticated for.
type Client struct {
	Conn    Conn
	StoreID uuid.UUID
}

type message struct {
	storeID uuid.UUID
	payload []byte
}

type Hub struct {
	clients    map[*Client]bool
	Register   chan *Client
	Unregister chan *Client
	broadcast  chan message
	mutex      sync.Mutex
	log        *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		broadcast:  make(chan message, 64),
		log:        log.Named("ws"),
	}
}

// Run serves the hub until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.mutex.Lock()
			for c := range h.clients {
				c.Conn.Close()
				delete(h.clients, c)
			}
			h.mutex.Unlock()
			return

		case c := <-h.Register:
			h.mutex.Lock()
			h.clients[c] = true
			h.mutex.Unlock()
			h.log.Debug("client connected", zap.String("store_id", c.StoreID.String()))

		case c := <-h.Unregister:
			h.mutex.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				c.Conn.Close()
			}
			h.mutex.Unlock()

		case m := <-h.broadcast:
			h.mutex.Lock()
			for c := range h.clients {
				if c.StoreID != m.storeID {
					continue
				}
				if err := c.Conn.WriteMessage(websocket.TextMessage, m.payload); err != nil {
					c.Conn.Close()
					delete(h.clients, c)
				}
			}
			h.mutex.Unlock()
		}
	}
}

// Publish queues e for the clients of e.StoreID. A full queue drops the event.
func (h *Hub) Publish(_ context.Context, e event.Event) {
	payload, err := json.Marshal(e)
	if err != nil {
		h.log.Error("marshal event", zap.Error(err))
		return
	}
	select {
	case h.broadcast <- message{storeID: e.StoreID, payload: payload}:
	default:
		h.log.Warn("broadcast queue full, dropping event", zap.String("action", e.Action))
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}
