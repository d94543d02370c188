package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var errorKinds = map[codes.Code]struct {
	kind       string
	httpStatus int
}{
	codes.InvalidArgument:    {"invalid-argument", http.StatusBadRequest},
	codes.Unauthenticated:    {"unauthenticated", http.StatusUnauthorized},
	codes.NotFound:           {"not-found", http.StatusNotFound},
	codes.PermissionDenied:   {"permission-denied", http.StatusForbidden},
	codes.FailedPrecondition: {"failed-precondition", http.StatusBadRequest},
	codes.AlreadyExists:      {"already-exists", http.StatusConflict},
	codes.Aborted:            {"aborted", http.StatusConflict},
	codes.Canceled:           {"cancelled", 499},
	codes.DeadlineExceeded:   {"deadline-exceeded", http.StatusGatewayTimeout},
	codes.Internal:           {"internal", http.StatusInternalServerError},
}

// respondError writes err as {"error": {"status": kind, "message": msg}}.
func respondError(c *gin.Context, err error) {
	st, ok := status.FromError(err)
	if !ok {
		st = status.New(codes.Internal, "Internal error.")
	}
	k, known := errorKinds[st.Code()]
	if !known {
		k = errorKinds[codes.Internal]
	}
	c.AbortWithStatusJSON(k.httpStatus, gin.H{
		"error": gin.H{"status": k.kind, "message": st.Message()},
	})
}

func badRequest(c *gin.Context, msg string) {
	respondError(c, status.Error(codes.InvalidArgument, msg))
}
