package websocket

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// GET /ws  (JWT middleware injects the player id)
func ServeWS(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		playerID := c.GetString("player_id")
		if playerID == "" {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}

		client := &Client{
			PlayerID: playerID,
			Conn:     conn,
			Send:     make(chan OutgoingMessage, 32),
			Hub:      hub,
		}

		hub.register <- client

		go client.writePump()
		go client.readPump()
	}
}
