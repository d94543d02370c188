package controllers

import (
	"net/http"

	"github.com/bellapacxx/squares-backend/auth"
	"github.com/gin-gonic/gin"
)

type startGameRequest struct {
	GameID string `json:"gameId"`
}

// StartGame is the callable endpoint: POST /api/start_game {"gameId": "..."}
func (h *Handlers) StartGame(c *gin.Context) {
	var req startGameRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "The function must be called with a gameId.")
			return
		}
	}
	h.startGame(c, req.GameID)
}

// StartGameByID starts the game named in the path.
func (h *Handlers) StartGameByID(c *gin.Context) {
	h.startGame(c, c.Param("id"))
}

func (h *Handlers) startGame(c *gin.Context, gameID string) {
	res, err := h.Games.StartGame(c.Request.Context(), gameID, auth.IdentityFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
