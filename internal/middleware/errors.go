// Package middleware holds the gin middleware chain shared by every route.
package middleware

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/justsurfingit/alumni-hub/internal/apperr"
	"github.com/justsurfingit/alumni-hub/internal/logging"
)

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// Errors renders the last error a handler attached with c.Error as
// {message, error?}. The error detail is only included when debug is set.
func Errors(logger *zap.Logger, debug bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		last := c.Errors.Last()
		if last == nil {
			return
		}
		err := last.Err
		kind := apperr.KindOf(err)
		if kind == apperr.KindInternal {
			logging.FromContext(c.Request.Context(), logger).Error("request failed",
				zap.String("path", c.FullPath()),
				zap.Error(err),
			)
		}
		if c.Writer.Written() {
			return
		}

		body := errorBody{Message: apperr.MessageOf(err)}
		if debug {
			body.Error = err.Error()
		}
		c.JSON(kind.HTTPStatus(), body)
	}
}

// Abort attaches err for Errors to render and stops the chain.
func Abort(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
