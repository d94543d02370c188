package controllers

import (
	"net/http"

	"github.com/bellapacxx/squares-backend/auth"
	"github.com/bellapacxx/squares-backend/models"
	"github.com/gin-gonic/gin"
)

type paidRequest struct {
	Paid *bool `json:"paid"`
}

func bindPaid(c *gin.Context) (bool, bool) {
	var req paidRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Paid == nil {
		badRequest(c, "paid must be true or false.")
		return false, false
	}
	return *req.Paid, true
}

func (h *Handlers) ListSquares(c *gin.Context) {
	squares, err := h.Games.ListSquares(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if squares == nil {
		squares = []models.Square{}
	}
	c.JSON(http.StatusOK, squares)
}

// ClaimSquare takes the square at :pos for the caller
func (h *Handlers) ClaimSquare(c *gin.Context) {
	pos, ok := positionParam(c)
	if !ok {
		return
	}
	sq, err := h.Games.Claim(c.Request.Context(), c.Param("id"), pos, auth.IdentityFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sq)
}

func (h *Handlers) ReleaseSquare(c *gin.Context) {
	pos, ok := positionParam(c)
	if !ok {
		return
	}
	if err := h.Games.Release(c.Request.Context(), c.Param("id"), pos, auth.IdentityFrom(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handlers) SetSquarePaid(c *gin.Context) {
	pos, ok := positionParam(c)
	if !ok {
		return
	}
	paid, ok := bindPaid(c)
	if !ok {
		return
	}
	if err := h.Games.SetSquarePaid(c.Request.Context(), c.Param("id"), pos, paid, auth.IdentityFrom(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"paid": paid})
}

// SetPlayerPaid flips every square of one player at once
func (h *Handlers) SetPlayerPaid(c *gin.Context) {
	paid, ok := bindPaid(c)
	if !ok {
		return
	}
	n, err := h.Games.SetPlayerPaid(c.Request.Context(), c.Param("id"), c.Param("uid"), paid, auth.IdentityFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"paid": paid, "updated": n})
}
