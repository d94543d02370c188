// Package controllers adapts HTTP requests to the game services.
package controllers

import (
	"strconv"

	"github.com/bellapacxx/squares-backend/services"
	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Games *services.GameService
	Hub   *services.Hub
}

func NewHandlers(games *services.GameService, hub *services.Hub) *Handlers {
	return &Handlers{Games: games, Hub: hub}
}

// positionParam parses :pos; ok is false once a response has been written.
func positionParam(c *gin.Context) (int, bool) {
	pos, err := strconv.Atoi(c.Param("pos"))
	if err != nil {
		badRequest(c, "Square position must be a number.")
		return 0, false
	}
	return pos, true
}
