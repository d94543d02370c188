package controllers

import (
	"net/http"

	"github.com/bellapacxx/squares-backend/auth"
	"github.com/gin-gonic/gin"
)

// UpsertMe stores the caller's profile from their token
func (h *Handlers) UpsertMe(c *gin.Context) {
	caller := auth.IdentityFrom(c)
	u, err := h.Games.UpsertProfile(c.Request.Context(), caller)
	if err != nil {
		respondError(c, err)
		return
	}
	admin, err := h.Games.IsSuperAdmin(c.Request.Context(), caller)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u, "superAdmin": admin})
}
