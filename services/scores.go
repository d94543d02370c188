package services

import (
	"context"
	"strings"

	"github.com/bellapacxx/squares-backend/auth"
	"github.com/bellapacxx/squares-backend/models"
	"github.com/bellapacxx/squares-backend/utils/logger"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// GlobalScores returns the shared score record for key (a season year).
func (s *GameService) GlobalScores(ctx context.Context, key string) (*models.GlobalScores, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, status.Error(codes.InvalidArgument, "A score key is required.")
	}
	gs, err := s.store.GetGlobalScores(ctx, key)
	if err != nil {
		return nil, storeError(err, "No scores recorded for "+key+".")
	}
	return gs, nil
}

// SaveGlobalScores applies patch to the shared record. Only super admins
// may write it; every game borrowing the record is notified.
func (s *GameService) SaveGlobalScores(ctx context.Context, key string, patch models.ScorePatch, caller *auth.Identity) (*models.GlobalScores, error) {
	if caller == nil {
		return nil, errUnauthenticated
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, status.Error(codes.InvalidArgument, "A score key is required.")
	}
	ok, err := s.IsSuperAdmin(ctx, caller)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, status.Error(codes.PermissionDenied, "Only super admins can publish shared scores.")
	}
	if err := validateScores(patch.Set); err != nil {
		return nil, err
	}

	gs, err := s.store.SaveGlobalScores(ctx, key, patch)
	if err != nil {
		return nil, storeError(err, "No scores recorded for "+key+".")
	}
	logger.Infow("global scores saved", "key", key, "by", caller.UID)

	games, err := s.store.ListGamesByBigGame(ctx, key)
	if err != nil {
		logger.Warnf("list games for big game %s: %v", key, err)
		return gs, nil
	}
	for _, g := range games {
		s.notifier.Publish(g.ID)
	}
	return gs, nil
}

func (s *GameService) IsSuperAdmin(ctx context.Context, caller *auth.Identity) (bool, error) {
	if caller == nil {
		return false, nil
	}
	ok, err := s.store.IsSuperAdmin(ctx, caller.UID)
	if err != nil {
		return false, storeError(err, "User not found.")
	}
	return ok, nil
}

// AddSuperAdmin seeds a super admin; used by the CLI.
func (s *GameService) AddSuperAdmin(ctx context.Context, uid string) error {
	if strings.TrimSpace(uid) == "" {
		return status.Error(codes.InvalidArgument, "A uid is required.")
	}
	return storeError(s.store.AddSuperAdmin(ctx, uid), "User not found.")
}
