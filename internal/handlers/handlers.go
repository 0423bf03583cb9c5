package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/justsurfingit/alumni-hub/internal/apperr"
	"github.com/justsurfingit/alumni-hub/internal/middleware"
)

// fail hands err to the error middleware.
func fail(c *gin.Context, err error) {
	middleware.Abort(c, err)
}

func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		fail(c, apperr.New(apperr.KindBadRequest, "Invalid JSON format", err))
		return false
	}
	return true
}

// pathID parses a uuid path parameter, failing with BadRequest.
func pathID(c *gin.Context, name, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		fail(c, apperr.New(apperr.KindBadRequest, "Invalid "+label+" ID", err))
		return uuid.Nil, false
	}
	return id, true
}
