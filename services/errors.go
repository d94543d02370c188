package services

import (
	"context"
	"errors"

	"github.com/bellapacxx/squares-backend/store"
	"github.com/bellapacxx/squares-backend/utils/logger"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var errUnauthenticated = status.Error(codes.Unauthenticated, "The function must be called while authenticated.")

// storeError turns a store failure into a categorical error. Unknown
// failures are logged and reported as internal.
func storeError(err error, notFoundMsg string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound):
		return status.Error(codes.NotFound, notFoundMsg)
	case errors.Is(err, store.ErrConflict):
		return status.Error(codes.Aborted, "The game changed concurrently; try again.")
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, "The request was cancelled.")
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, "The request timed out.")
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	logger.Errorf("store failure: %v", err)
	return status.Error(codes.Internal, "Internal error.")
}
