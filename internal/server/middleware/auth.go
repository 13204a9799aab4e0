// Package middleware contains the HTTP middlewares: authentication,
// request logging, panic recovery and rate limiting.
package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"gercekmi.com/backend/internal/auth"
	"gercekmi.com/backend/internal/common"
)

const userContextKey = "gercekmi.user"

// RequireAuth resolves the bearer credential to a live identity and
// aborts the request when it can't. The resolver rejects unknown and
// disabled accounts.
func RequireAuth(tokens *auth.Manager, resolver auth.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := resolveBearer(c, tokens, resolver)
		if err != nil {
			if errors.Is(err, auth.ErrNoCredential) {
				err = common.ErrUnauthenticated
			}
			AbortWithError(c, err)
			return
		}
		c.Set(userContextKey, user)
		c.Next()
	}
}

// OptionalAuth attaches an identity when a valid credential is present
// and lets the request continue anonymously otherwise. Listings use it
// to mark the viewer's own votes and likes.
func OptionalAuth(tokens *auth.Manager, resolver auth.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := resolveBearer(c, tokens, resolver)
		if err == nil {
			c.Set(userContextKey, user)
		}
		c.Next()
	}
}

func resolveBearer(c *gin.Context, tokens *auth.Manager, resolver auth.Resolver) (*auth.Identity, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return nil, auth.ErrNoCredential
	}
	if !strings.HasPrefix(header, "Bearer ") {
		return nil, common.ErrUnauthenticated
	}

	claims, err := tokens.Parse(strings.TrimPrefix(header, "Bearer "))
	if err != nil {
		return nil, err
	}
	return resolver.Resolve(c.Request.Context(), claims.UserID)
}

// UserFromContext returns the authenticated identity, if any.
func UserFromContext(c *gin.Context) (*auth.Identity, bool) {
	v, exists := c.Get(userContextKey)
	if !exists {
		return nil, false
	}
	user, ok := v.(*auth.Identity)
	return user, ok
}
