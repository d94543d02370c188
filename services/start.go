package services

import (
	"context"
	"errors"

	"github.com/bellapacxx/squares-backend/auth"
	"github.com/bellapacxx/squares-backend/models"
	"github.com/bellapacxx/squares-backend/store"
	"github.com/bellapacxx/squares-backend/utils/logger"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const fullGrid = models.GridSize * models.GridSize

type StartResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

var errAlreadyStarted = status.Error(codes.FailedPrecondition, "Game is already started or completed.")

// StartGame locks a DRAFT game and assigns its row and column digits. Checks
// run in order and the first failure is returned with nothing written. The
// game row stays locked for the whole check so concurrent claims, releases
// and starts cannot interleave; the final write is additionally conditional
// on the game still being DRAFT.
func (s *GameService) StartGame(ctx context.Context, gameID string, caller *auth.Identity) (*StartResult, error) {
	res, err := s.startGame(ctx, gameID, caller)
	if err != nil {
		st, _ := status.FromError(err)
		logger.Warnw("start game rejected", "game_id", gameID, "code", st.Code().String(), "reason", st.Message())
		return nil, err
	}
	s.notifier.Publish(gameID)
	return res, nil
}

func (s *GameService) startGame(ctx context.Context, gameID string, caller *auth.Identity) (*StartResult, error) {
	if gameID == "" {
		return nil, status.Error(codes.InvalidArgument, "The function must be called with a gameId.")
	}
	if caller == nil {
		return nil, errUnauthenticated
	}

	var grid models.GridNumbers
	err := s.store.InTx(ctx, func(tx store.Store) error {
		g, err := tx.GetGameForUpdate(ctx, gameID)
		if err != nil {
			return storeError(err, "Game not found.")
		}
		if g.AdminID != caller.UID {
			return status.Error(codes.PermissionDenied, "Only the game admin can start the game.")
		}
		if g.Status != models.StatusDraft {
			return errAlreadyStarted
		}

		if g.Rules().UnclaimedRule == models.RuleRequireFull {
			count, err := tx.CountSquares(ctx, gameID)
			if err != nil {
				return storeError(err, "Game not found.")
			}
			if count < fullGrid {
				return status.Errorf(codes.FailedPrecondition, "Grid not full. Only %d/%d squares taken.", count, fullGrid)
			}
		}

		grid, err = s.shuffler.NewGrid()
		if err != nil {
			logger.Errorf("game %s: randomize grid: %v", gameID, err)
			return status.Error(codes.Internal, "Could not randomize the grid.")
		}

		if err := tx.LockGame(ctx, gameID, grid, s.now().UTC()); err != nil {
			if errors.Is(err, store.ErrConflict) {
				return errAlreadyStarted
			}
			return storeError(err, "Game not found.")
		}
		return nil
	})
	if err != nil {
		return nil, storeError(err, "Game not found.")
	}

	logger.Infow("game started", "game_id", gameID, "admin_id", caller.UID, "row", grid.Row, "col", grid.Col)
	return &StartResult{Success: true, Message: "Game started successfully"}, nil
}
