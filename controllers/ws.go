package controllers

import (
	"net/http"

	"github.com/bellapacxx/squares-backend/utils/logger"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WatchGame upgrades to a websocket that receives the board on every change
func (h *Handlers) WatchGame(c *gin.Context) {
	id := c.Param("id")
	if _, err := h.Games.GetGame(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warnf("[WS] upgrade error: %v", err)
		return
	}
	h.Hub.Join(id, conn)
}
