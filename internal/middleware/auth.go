package middleware

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/justsurfingit/alumni-hub/internal/apperr"
	"github.com/justsurfingit/alumni-hub/internal/models"
	"github.com/justsurfingit/alumni-hub/internal/session"
)

type TokenVerifier interface {
	Verify(token string) (session.Principal, error)
}

// Authenticate requires a valid bearer token and attaches its principal to
// the request context.
func Authenticate(tokens TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			Abort(c, apperr.Unauthorized("No token, authorization denied"))
			return
		}
		p, err := tokens.Verify(strings.TrimSpace(token))
		if err != nil {
			Abort(c, apperr.New(apperr.KindUnauthorized, "Token is not valid", err))
			return
		}
		c.Request = c.Request.WithContext(session.WithPrincipal(c.Request.Context(), p))
		c.Next()
	}
}

// RequireRole rejects callers without role before the handler reads the body.
func RequireRole(role models.Role, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := session.RequireRole(c.Request.Context(), role, message); err != nil {
			Abort(c, err)
			return
		}
		c.Next()
	}
}

func Timeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if d <= 0 {
			c.Next()
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
