package ws

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"ai-mart-inventory/internal/event"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type fakeConn struct {
	mu     sync.Mutex
	msgs   [][]byte
	closed bool
}

func (c *fakeConn) WriteMessage(_ int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.msgs = append(c.msgs, data)
	return nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConn) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.msgs)
}

func TestHubScopesBroadcastToStore(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub := NewHub(zap.NewNop())
	go hub.Run(ctx)

	storeA, storeB := uuid.New(), uuid.New()
	connA, connB := &fakeConn{}, &fakeConn{}
	hub.Register <- &Client{Conn: connA, StoreID: storeA}
	hub.Register <- &Client{Conn: connB, StoreID: storeB}

	hub.Publish(ctx, event.Event{Type: event.TypeStockUpdate, Action: event.ActionSaleRecorded, StoreID: storeA})

	deadline := time.Now().Add(2 * time.Second)
	for connA.count() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if connA.count() != 1 {
		t.Fatalf("store A got %d messages, want 1", connA.count())
	}
	if connB.count() != 0 {
		t.Fatalf("store B got %d messages, want 0", connB.count())
	}

	var got event.Event
	connA.mu.Lock()
	err := json.Unmarshal(connA.msgs[0], &got)
	connA.mu.Unlock()
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Action != event.ActionSaleRecorded || got.StoreID != storeA {
		t.Fatalf("event = %+v", got)
	}
}

func TestHubClosesClientsOnShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(zap.NewNop())
	done := make(chan struct{})
	go func() { hub.Run(ctx); close(done) }()

	conn := &fakeConn{}
	hub.Register <- &Client{Conn: conn, StoreID: uuid.New()}
	cancel()
	<-done

	if !conn.closed {
		t.Fatal("client not closed on shutdown")
	}
	if hub.ClientCount() != 0 {
		t.Fatalf("clients left: %d", hub.ClientCount())
	}
}
