package auth

import (
	"strings"

	"github.com/bellapacxx/squares-backend/utils/logger"
	"github.com/gin-gonic/gin"
)

const identityKey = "auth.identity"

// Authenticate attaches the caller's Identity when a valid bearer token is
// present. A missing, malformed or invalid token leaves the request
// anonymous, so handlers validate their arguments first and then report
// unauthenticated themselves.
func Authenticate(v *Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}

		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			logger.Debugf("[Auth] malformed Authorization header on %s", c.FullPath())
			c.Next()
			return
		}

		id, err := v.Verify(strings.TrimSpace(token))
		if err != nil {
			logger.Debugf("[Auth] rejected bearer token on %s: %v", c.FullPath(), err)
			c.Next()
			return
		}
		c.Set(identityKey, id)
		c.Next()
	}
}

// IdentityFrom returns the caller, or nil for anonymous requests.
func IdentityFrom(c *gin.Context) *Identity {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil
	}
	id, _ := v.(*Identity)
	return id
}
