// Package broadcast maintains the realtime push channel: one private topic
// per user (user.<id>), fed by the notification dispatcher and consumed by
// authenticated websocket connections.
package broadcast

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/hireloop-dev/hireloop/internal/notify"
	"github.com/sirupsen/logrus"
)

const writeWait = 10 * time.Second

// client pairs a connection with its write lock. gorilla/websocket supports
// at most one concurrent writer per connection, so every frame written to a
// registered connection must go through this lock, whichever goroutine sends
// it.
type client struct {
	conn *websocket.Conn
	wmu  sync.Mutex
}

func (c *client) writeJSON(deadline time.Time, v interface{}) error {
	c.wmu.Lock()
	defer c.wmu.Unlock()

	if err := c.conn.SetWriteDeadline(deadline); err != nil {
		return err
	}
	return c.conn.WriteJSON(v)
}

func (c *client) writeMessage(deadline time.Time, messageType int, data []byte) error {
	c.wmu.Lock()
	defer c.wmu.Unlock()

	if err := c.conn.SetWriteDeadline(deadline); err != nil {
		return err
	}
	return c.conn.WriteMessage(messageType, data)
}

// Hub tracks live connections per recipient. Delivery is fire-and-forget: a
// recipient with no connections is not an error, and dead connections are
// pruned on write failure.
type Hub struct {
	clients map[uint]map[*websocket.Conn]*client
	mu      sync.RWMutex
	log     *logrus.Logger
}

func NewHub(log *logrus.Logger) *Hub {
	return &Hub{
		clients: make(map[uint]map[*websocket.Conn]*client),
		log:     log,
	}
}

// Topic returns the private topic name for a recipient.
func Topic(userID uint) string {
	return fmt.Sprintf("user.%d", userID)
}

// Register attaches a connection to the recipient's topic. The caller must
// have authenticated the connection as that recipient.
func (h *Hub) Register(userID uint, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[userID] == nil {
		h.clients[userID] = make(map[*websocket.Conn]*client)
	}
	h.clients[userID][conn] = &client{conn: conn}
}

// Unregister detaches a connection, dropping the topic entry when it was the
// last one.
func (h *Hub) Unregister(userID uint, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conns, exists := h.clients[userID]; exists {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.clients, userID)
		}
	}
}

// Subscribers returns the number of live connections on a recipient's topic.
func (h *Hub) Subscribers(userID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

func (h *Hub) lookup(userID uint, conn *websocket.Conn) *client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.clients[userID][conn]
}

// WriteJSON sends a frame to one registered connection, sharing the
// per-connection write lock with Publish and Ping.
func (h *Hub) WriteJSON(userID uint, conn *websocket.Conn, v interface{}) error {
	c := h.lookup(userID, conn)
	if c == nil {
		return fmt.Errorf("connection is not registered on %s", Topic(userID))
	}
	return c.writeJSON(time.Now().Add(writeWait), v)
}

// Ping sends a control ping on one registered connection.
func (h *Hub) Ping(userID uint, conn *websocket.Conn) error {
	c := h.lookup(userID, conn)
	if c == nil {
		return fmt.Errorf("connection is not registered on %s", Topic(userID))
	}
	return c.writeMessage(time.Now().Add(writeWait), websocket.PingMessage, nil)
}

// Publish writes the message to every connection on the recipient's topic.
// It satisfies notify.Broadcaster.
func (h *Hub) Publish(ctx context.Context, userID uint, message notify.BroadcastMessage) error {
	h.mu.RLock()
	conns, exists := h.clients[userID]
	if !exists || len(conns) == 0 {
		h.mu.RUnlock()
		return nil
	}

	// Copy so the registry lock is not held while writing to sockets.
	clientsCopy := make([]*client, 0, len(conns))
	for _, c := range conns {
		clientsCopy = append(clientsCopy, c)
	}
	h.mu.RUnlock()

	deadline := time.Now().Add(writeWait)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	for _, c := range clientsCopy {
		if err := c.writeJSON(deadline, message); err != nil {
			h.log.Warnf("Failed to publish to %s: %v", Topic(userID), err)
			h.Unregister(userID, c.conn)
			c.conn.Close()
		}
	}

	return nil
}
