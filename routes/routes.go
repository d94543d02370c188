package routes

import (
	"net/http"

	"github.com/bellapacxx/squares-backend/auth"
	"github.com/bellapacxx/squares-backend/controllers"
	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, h *controllers.Handlers, verifier *auth.Verifier) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api", auth.Authenticate(verifier))

	// ----------------------
	// Callable
	// ----------------------
	api.POST("/start_game", h.StartGame) // Start game by {gameId}

	// ----------------------
	// User routes
	// ----------------------
	api.POST("/users/me", h.UpsertMe) // Record caller profile

	// ----------------------
	// Game routes
	// ----------------------
	api.POST("/games", h.CreateGame)              // Create game
	api.GET("/games", h.ListGames)                // List admin or player games
	api.GET("/games/:id", h.GetGame)              // Get game
	api.DELETE("/games/:id", h.DeleteGame)        // Delete game
	api.POST("/games/:id/start", h.StartGameByID) // Start game
	api.PUT("/games/:id/scores", h.UpdateScores)  // Enter scores
	api.PATCH("/games/:id/rules", h.UpdateRules)  // Change rules
	api.GET("/games/:id/board", h.Board)          // Board with winners
	api.GET("/games/:id/qr", h.QRCode)            // Share QR code

	// ----------------------
	// Square routes
	// ----------------------
	api.GET("/games/:id/squares", h.ListSquares)               // List squares
	api.PUT("/games/:id/squares/:pos", h.ClaimSquare)          // Claim square
	api.DELETE("/games/:id/squares/:pos", h.ReleaseSquare)     // Release square
	api.PATCH("/games/:id/squares/:pos/paid", h.SetSquarePaid) // Mark square paid
	api.PATCH("/games/:id/players/:uid/paid", h.SetPlayerPaid) // Mark player paid

	// ----------------------
	// Shared score routes
	// ----------------------
	api.GET("/scores/:key", h.GetGlobalScores)  // Shared scores
	api.PUT("/scores/:key", h.SaveGlobalScores) // Publish shared scores

	// ----------------------
	// Live updates
	// ----------------------
	r.GET("/ws/games/:id", h.WatchGame)
}
