package game

import "github.com/bellapacxx/squares-backend/models"

// ResolveScores picks the scores a game is judged on. A shared big-game
// record takes precedence over the game's own scores.
func ResolveScores(own, shared *models.Scores) *models.Scores {
	if shared != nil {
		return shared
	}
	return own
}

// EmptyScores returns scores with every period pending.
func EmptyScores() *models.Scores {
	return &models.Scores{}
}
