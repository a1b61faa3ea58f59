package handler

import (
	"log"
	"net/http"
	"time"

	"pawpals/internal/identity"
	"pawpals/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	locWriteWait  = 10 * time.Second
	locPongWait   = 60 * time.Second
	locPingPeriod = (locPongWait * 9) / 10
)

var locationUpgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// UpgradeLocationWS upgrades to the live location channel; query: token.
// The read loop processes one message at a time, so a single socket's
// messages are handled in the order sent.
func UpgradeLocationWS(verifier identity.Verifier, hub *ws.Hub, gateway *ws.Gateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "token required"})
			return
		}
		ident, err := verifier.Verify(c.Request.Context(), token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		conn, err := locationUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		client := &ws.Client{
			ID:     uuid.NewString(),
			UserID: ident.UserID,
			Send:   make(chan []byte, 256),
		}
		hub.Register(client)
		log.Printf("connection established: %s (user %s)", client.ID, ident.UserID)
		defer func() {
			client.Close()
			log.Printf("connection closed: %s", client.ID)
		}()

		conn.SetReadDeadline(time.Now().Add(locPongWait))
		conn.SetPongHandler(func(string) error {
			conn.SetReadDeadline(time.Now().Add(locPongWait))
			return nil
		})
		go func() {
			ticker := time.NewTicker(locPingPeriod)
			defer ticker.Stop()
			for {
				select {
				case msg, ok := <-client.Send:
					if !ok {
						conn.WriteMessage(websocket.CloseMessage, nil)
						return
					}
					conn.SetWriteDeadline(time.Now().Add(locWriteWait))
					if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
						return
					}
				case <-ticker.C:
					conn.SetWriteDeadline(time.Now().Add(locWriteWait))
					if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
						return
					}
				}
			}
		}()
		for {
			_, raw, err := conn.ReadMessage()
			if err != nil {
				break
			}
			gateway.HandleMessage(c.Request.Context(), client, raw)
		}
	}
}
