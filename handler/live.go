package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"hackathon-backend/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Live streams domain events to an admin dashboard until the client leaves.
func (h *Handler) Live(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Logger.Debug("websocket upgrade", zap.Error(err))
		return
	}

	h.hub.Add(conn)
	defer h.hub.Remove(conn)
	log.Logger.Info("live feed opened", zap.String("admin", c.GetString(adminKey)))

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
