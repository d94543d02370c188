// Package store persists games, squares, shared scores and user profiles.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/bellapacxx/squares-backend/models"
)

var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflicting update")
	ErrSquareTaken = errors.New("square already taken")
)

// Store is the document store behind the services. Implementations must make
// InTx atomic and GetGameForUpdate must serialize concurrent transactions on
// the same game.
type Store interface {
	InTx(ctx context.Context, fn func(tx Store) error) error

	CreateGame(ctx context.Context, g *models.Game) error
	GetGame(ctx context.Context, id string) (*models.Game, error)
	GetGameForUpdate(ctx context.Context, id string) (*models.Game, error)
	ListGamesByAdmin(ctx context.Context, adminID string) ([]models.Game, error)
	ListGamesByParticipant(ctx context.Context, uid string) ([]models.Game, error)
	ListGamesByBigGame(ctx context.Context, bigGameID string) ([]models.Game, error)
	DeleteGame(ctx context.Context, id string) error
	UpdateScores(ctx context.Context, id string, scores models.Scores) error
	UpdateConfig(ctx context.Context, id string, cfg models.GameConfig) error
	// LockGame moves a DRAFT game to LOCKED with its grid in one write. It
	// returns ErrConflict when the game is no longer DRAFT.
	LockGame(ctx context.Context, id string, grid models.GridNumbers, startedAt time.Time) error

	ListSquares(ctx context.Context, gameID string) ([]models.Square, error)
	CountSquares(ctx context.Context, gameID string) (int64, error)
	CountSquaresByOwner(ctx context.Context, gameID, ownerID string) (int64, error)
	GetSquare(ctx context.Context, gameID string, position int) (*models.Square, error)
	ClaimSquare(ctx context.Context, sq *models.Square) error
	ReleaseSquare(ctx context.Context, gameID string, position int) error
	SetSquarePaid(ctx context.Context, gameID string, position int, paid bool) error
	SetPlayerPaid(ctx context.Context, gameID, ownerID string, paid bool) (int64, error)

	GetGlobalScores(ctx context.Context, id string) (*models.GlobalScores, error)
	SaveGlobalScores(ctx context.Context, id string, patch models.ScorePatch) (*models.GlobalScores, error)

	UpsertUser(ctx context.Context, u *models.User) error
	GetUsers(ctx context.Context, uids []string) (map[string]models.User, error)
	AddSuperAdmin(ctx context.Context, uid string) error
	IsSuperAdmin(ctx context.Context, uid string) (bool, error)
}
