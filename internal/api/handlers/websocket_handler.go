// internal/api/handlers/websocket_handler.go
package handlers

import (
	"log"
	"net/http"
	"time"

	"bulk-order-api-server/internal/auth"
	"bulk-order-api-server/internal/socket"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Maximum wait for a client message or ping.
const pongWait = 30 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WebSocketHandler struct {
	Hub    *socket.Hub
	Issuer *auth.TokenIssuer
}

// ServeWs upgrades the connection after checking the token query parameter.
func (h *WebSocketHandler) ServeWs(c *gin.Context) {
	tokenString := c.Query("token")
	if tokenString == "" {
		fail(c, http.StatusUnauthorized, "Token is required")
		return
	}

	claims, err := h.Issuer.Parse(tokenString)
	if err != nil {
		fail(c, http.StatusUnauthorized, "Invalid or expired token")
		return
	}
	caller, err := auth.CallerFromClaims(claims)
	if err != nil {
		fail(c, http.StatusUnauthorized, "Invalid or expired token")
		return
	}
	userID := caller.UserID.Hex()

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade connection: %v", err)
		return
	}

	h.Hub.Register(userID, caller.IsAdmin(), conn)
	defer func() {
		h.Hub.Unregister(userID, conn)
		conn.Close()
	}()

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPingHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	// Reads only keep the deadline alive; clients never send commands.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("Unexpected close error: %v", err)
			}
			break
		}
	}
}
