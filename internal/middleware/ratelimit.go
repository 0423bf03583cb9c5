package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/justsurfingit/alumni-hub/internal/apperr"
	"github.com/justsurfingit/alumni-hub/internal/ratelimit"
	"github.com/justsurfingit/alumni-hub/internal/session"
)

// RateLimit keys on the authenticated user, falling back to the client IP.
// A nil limiter disables the check.
func RateLimit(limiter ratelimit.Limiter, scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}
		key := c.ClientIP()
		if s := session.FromContext(c.Request.Context()); s.IsAuthenticated() {
			key = s.CurrentUser().UserID.String()
		}
		if !limiter.Allow(c.Request.Context(), scope+":"+key) {
			Abort(c, apperr.New(apperr.KindTooManyRequests, "Too many requests, please try again later", nil))
			return
		}
		c.Next()
	}
}
