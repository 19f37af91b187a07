package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	gorilla "github.com/gorilla/websocket"

	"github.com/ridewithus/carpool/pkg/logger"
	"github.com/ridewithus/carpool/pkg/websocket"
)

// HandleWebSocket handles GET /v1/ws. Clients connect once and redraw
// on every state_changed push; ride subscriptions narrow the
// per-ride traffic.
func (h *Handlers) HandleWebSocket(c *gin.Context) {
	upgrader := gorilla.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return true // single-host demo, no origin policy
		},
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.Logger.Error("Failed to upgrade to WebSocket", logger.Err(err))
		return
	}

	userID := c.Query("user_id")
	userMode := c.Query("user_type")
	if userID == "" {
		h.Logger.Warn("Missing user_id in WebSocket connection")
		conn.Close()
		return
	}

	client := websocket.NewClient(h.Hub, conn, userID, userMode, h.Logger)
	h.Hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
