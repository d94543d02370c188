package controllers

import (
	"net/http"

	"github.com/bellapacxx/squares-backend/auth"
	"github.com/bellapacxx/squares-backend/models"
	"github.com/gin-gonic/gin"
)

// GetGlobalScores returns the shared score record for :key
func (h *Handlers) GetGlobalScores(c *gin.Context) {
	gs, err := h.Games.GlobalScores(c.Request.Context(), c.Param("key"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gs)
}

func (h *Handlers) SaveGlobalScores(c *gin.Context) {
	var patch models.ScorePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, err.Error())
		return
	}
	gs, err := h.Games.SaveGlobalScores(c.Request.Context(), c.Param("key"), patch, auth.IdentityFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gs)
}
