// internal/socket/hub.go
package socket

import (
	"context"
	"errors"
	"fmt"
	"log"
	"slices"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

type client struct {
	conn  *websocket.Conn
	admin bool
	mu    sync.Mutex // one writer per connection
}

// write sends one text frame. The deadline is writeWait or the ctx deadline,
// whichever comes first.
func (c *client) write(ctx context.Context, message []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	deadline := time.Now().Add(writeWait)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := c.conn.SetWriteDeadline(deadline); err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.TextMessage, message)
}

// Hub tracks one live connection per user. The hub mutex guards the client
// map only; writes happen outside it under each client's own lock.
type Hub struct {
	clients map[string]*client
	mu      sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*client),
	}
}

// Register adds conn for userID, closing any connection it replaces.
func (h *Hub) Register(userID string, admin bool, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if old, ok := h.clients[userID]; ok && old.conn != conn {
		old.conn.Close()
	}
	h.clients[userID] = &client{conn: conn, admin: admin}
	log.Printf("WebSocket client registered: %s", userID)
}

// Unregister removes userID only if conn is still its current connection.
func (h *Hub) Unregister(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c, ok := h.clients[userID]; ok && c.conn == conn {
		delete(h.clients, userID)
		log.Printf("WebSocket client unregistered: %s", userID)
	}
}

// Connected reports whether userID has a live connection.
func (h *Hub) Connected(userID string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.clients[userID]
	return ok
}

// Send writes message to userID. An offline user is not an error.
func (h *Hub) Send(ctx context.Context, userID string, message []byte) error {
	h.mu.Lock()
	c, ok := h.clients[userID]
	h.mu.Unlock()

	if !ok {
		return nil
	}
	return c.write(ctx, message)
}

// SendToAdmins writes message to every connected administrator except the
// user ids in skip.
func (h *Hub) SendToAdmins(ctx context.Context, message []byte, skip ...string) error {
	targets := h.admins(skip)

	var errs []error
	for userID, c := range targets {
		if err := c.write(ctx, message); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", userID, err))
		}
	}
	return errors.Join(errs...)
}

func (h *Hub) admins(skip []string) map[string]*client {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make(map[string]*client)
	for userID, c := range h.clients {
		if c.admin && !slices.Contains(skip, userID) {
			out[userID] = c
		}
	}
	return out
}
