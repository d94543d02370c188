package controllers

import (
	"net/http"

	"github.com/bellapacxx/squares-backend/auth"
	"github.com/bellapacxx/squares-backend/models"
	"github.com/bellapacxx/squares-backend/services"
	"github.com/gin-gonic/gin"
)

// CreateGame creates a DRAFT game owned by the caller
func (h *Handlers) CreateGame(c *gin.Context) {
	var req services.CreateGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	g, err := h.Games.CreateGame(c.Request.Context(), auth.IdentityFrom(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"game": g, "share_url": h.Games.ShareURL(g.ID)})
}

// ListGames returns the caller's games; ?role=player lists games they play in
func (h *Handlers) ListGames(c *gin.Context) {
	caller := auth.IdentityFrom(c)

	var (
		games []models.Game
		err   error
	)
	switch c.DefaultQuery("role", "admin") {
	case "admin":
		games, err = h.Games.ListOwnedGames(c.Request.Context(), caller)
	case "player":
		games, err = h.Games.ListParticipatingGames(c.Request.Context(), caller)
	default:
		badRequest(c, "role must be admin or player.")
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	if games == nil {
		games = []models.Game{}
	}
	c.JSON(http.StatusOK, games)
}

// GetGame returns single game info
func (h *Handlers) GetGame(c *gin.Context) {
	g, err := h.Games.GetGame(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, g)
}

func (h *Handlers) DeleteGame(c *gin.Context) {
	if err := h.Games.DeleteGame(c.Request.Context(), c.Param("id"), auth.IdentityFrom(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UpdateScores replaces the game's own score entries
func (h *Handlers) UpdateScores(c *gin.Context) {
	var scores models.Scores
	if err := c.ShouldBindJSON(&scores); err != nil {
		badRequest(c, err.Error())
		return
	}
	id := c.Param("id")
	if err := h.Games.UpdateScores(c.Request.Context(), id, auth.IdentityFrom(c), scores); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Scores updated"})
}

func (h *Handlers) UpdateRules(c *gin.Context) {
	var patch services.RulesPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, err.Error())
		return
	}
	cfg, err := h.Games.UpdateRules(c.Request.Context(), c.Param("id"), auth.IdentityFrom(c), patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

// Board returns the game with squares, winners and player stats
func (h *Handlers) Board(c *gin.Context) {
	board, err := h.Games.Board(c.Request.Context(), c.Param("id"), auth.IdentityFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, board)
}

// QRCode renders the share link as a PNG
func (h *Handlers) QRCode(c *gin.Context) {
	png, err := h.Games.ShareQRCode(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}
