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

var errGameLocked = status.Error(codes.FailedPrecondition, "The game has started; squares can no longer change hands.")

func validPosition(pos int) error {
	if pos < 0 || pos >= fullGrid {
		return status.Errorf(codes.InvalidArgument, "Square %d is off the board.", pos)
	}
	return nil
}

func (s *GameService) ListSquares(ctx context.Context, gameID string) ([]models.Square, error) {
	if _, err := s.store.GetGame(ctx, gameID); err != nil {
		return nil, storeError(err, "Game not found.")
	}
	squares, err := s.store.ListSquares(ctx, gameID)
	if err != nil {
		return nil, storeError(err, "Game not found.")
	}
	return squares, nil
}

// Claim gives an open square of a DRAFT game to the caller, subject to the
// game's per-player maximum.
func (s *GameService) Claim(ctx context.Context, gameID string, pos int, caller *auth.Identity) (*models.Square, error) {
	if caller == nil {
		return nil, errUnauthenticated
	}
	if err := validPosition(pos); err != nil {
		return nil, err
	}

	sq := &models.Square{
		GameID:    gameID,
		ID:        models.SquareID(pos),
		OwnerID:   caller.UID,
		OwnerName: caller.Name,
	}
	err := s.store.InTx(ctx, func(tx store.Store) error {
		g, err := tx.GetGameForUpdate(ctx, gameID)
		if err != nil {
			return storeError(err, "Game not found.")
		}
		if g.Status != models.StatusDraft {
			return errGameLocked
		}

		if limit := g.Rules().MaxSquares; limit != nil && *limit > 0 {
			owned, err := tx.CountSquaresByOwner(ctx, gameID, caller.UID)
			if err != nil {
				return storeError(err, "Game not found.")
			}
			if owned >= int64(*limit) {
				return status.Errorf(codes.FailedPrecondition, "You have reached the maximum limit of %d squares per player.", *limit)
			}
		}

		if err := tx.ClaimSquare(ctx, sq); err != nil {
			if errors.Is(err, store.ErrSquareTaken) {
				return status.Errorf(codes.AlreadyExists, "Square %d is already taken.", pos)
			}
			return storeError(err, "Game not found.")
		}
		return nil
	})
	if err != nil {
		return nil, storeError(err, "Game not found.")
	}

	logger.Infow("square claimed", "game_id", gameID, "square", pos, "owner_id", caller.UID)
	s.notifier.Publish(gameID)
	return sq, nil
}

// Release hands a square back. Only its owner may do so, and never once it
// has been marked paid.
func (s *GameService) Release(ctx context.Context, gameID string, pos int, caller *auth.Identity) error {
	if caller == nil {
		return errUnauthenticated
	}
	if err := validPosition(pos); err != nil {
		return err
	}

	err := s.store.InTx(ctx, func(tx store.Store) error {
		g, err := tx.GetGameForUpdate(ctx, gameID)
		if err != nil {
			return storeError(err, "Game not found.")
		}
		if g.Status != models.StatusDraft {
			return errGameLocked
		}

		sq, err := tx.GetSquare(ctx, gameID, pos)
		if err != nil {
			return storeError(err, "Square not found.")
		}
		if sq.OwnerID != caller.UID {
			return status.Error(codes.PermissionDenied, "Only the owner can release a square.")
		}
		if sq.IsPaid {
			return status.Error(codes.FailedPrecondition, "This square has been marked as paid for and cannot be unset.")
		}
		return storeError(tx.ReleaseSquare(ctx, gameID, pos), "Square not found.")
	})
	if err != nil {
		return storeError(err, "Square not found.")
	}

	logger.Infow("square released", "game_id", gameID, "square", pos, "owner_id", caller.UID)
	s.notifier.Publish(gameID)
	return nil
}

func (s *GameService) SetSquarePaid(ctx context.Context, gameID string, pos int, paid bool, caller *auth.Identity) error {
	if err := validPosition(pos); err != nil {
		return err
	}
	if _, err := s.loadAsAdmin(ctx, gameID, caller, "track payments"); err != nil {
		return err
	}
	if err := s.store.SetSquarePaid(ctx, gameID, pos, paid); err != nil {
		return storeError(err, "Square not found.")
	}
	logger.Infow("square payment updated", "game_id", gameID, "square", pos, "paid", paid)
	s.notifier.Publish(gameID)
	return nil
}

// SetPlayerPaid flips the paid flag on every square ownerID holds, in one
// batch.
func (s *GameService) SetPlayerPaid(ctx context.Context, gameID, ownerID string, paid bool, caller *auth.Identity) (int64, error) {
	if ownerID == "" {
		return 0, status.Error(codes.InvalidArgument, "A player id is required.")
	}
	if _, err := s.loadAsAdmin(ctx, gameID, caller, "track payments"); err != nil {
		return 0, err
	}
	n, err := s.store.SetPlayerPaid(ctx, gameID, ownerID, paid)
	if err != nil {
		return 0, storeError(err, "Game not found.")
	}
	logger.Infow("player payment updated", "game_id", gameID, "owner_id", ownerID, "squares", n, "paid", paid)
	s.notifier.Publish(gameID)
	return n, nil
}
