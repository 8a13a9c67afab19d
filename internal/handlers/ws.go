package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/hireloop-dev/hireloop/internal/broadcast"
	"github.com/hireloop-dev/hireloop/internal/logger"
	"github.com/hireloop-dev/hireloop/internal/types"
	"github.com/hireloop-dev/hireloop/internal/utils"
)

const (
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// WebSocket upgrades the request and attaches the connection to the current
// user's private topic. Runs behind AuthMiddleware; the JWT check is the
// subscription authorization.
func WebSocket(hub *broadcast.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		currentUser, err := utils.GetCurrentUser(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			return
		}

		upgrader := websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				for _, allowed := range types.AllowedOrigins {
					if origin == allowed {
						return true
					}
				}
				return false
			},
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Log.Errorf("WebSocket upgrade failed: %v", err)
			return
		}

		conn.SetReadLimit(maxMessageSize)
		if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			logger.Log.Errorf("Failed to set initial read deadline: %v", err)
			conn.Close()
			return
		}
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})

		hub.Register(currentUser.ID, conn)

		defer func() {
			hub.Unregister(currentUser.ID, conn)
			conn.Close()
			logger.Log.Debugf("WebSocket connection closed for %s", broadcast.Topic(currentUser.ID))
		}()

		err = hub.WriteJSON(currentUser.ID, conn, map[string]string{
			"type":    "connected",
			"message": "Realtime notifications connected",
			"topic":   broadcast.Topic(currentUser.ID),
		})
		if err != nil {
			logger.Log.Errorf("Failed to send welcome message: %v", err)
			return
		}

		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()

		done := make(chan struct{})
		defer close(done)

		go func() {
			for {
				select {
				case <-done:
					return
				case <-ticker.C:
					// Pings go through the hub so they share the connection's
					// write lock with concurrent publishes.
					if err := hub.Ping(currentUser.ID, conn); err != nil {
						return
					}
				}
			}
		}()

		for {
			if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
				break
			}

			// The channel is push-only; client frames are drained to keep the
			// pong handler running.
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					logger.Log.Warnf("WebSocket error for %s: %v", broadcast.Topic(currentUser.ID), err)
				}
				break
			}
		}
	}
}
