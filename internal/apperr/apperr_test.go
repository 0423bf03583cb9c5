package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	t.Run("classified error", func(t *testing.T) {
		assert.Equal(t, KindConflict, KindOf(Conflict("duplicate")))
	})

	t.Run("wrapped classified error", func(t *testing.T) {
		err := fmt.Errorf("apply: %w", NotFound("job not found"))
		assert.Equal(t, KindNotFound, KindOf(err))
		assert.True(t, Is(err, KindNotFound))
	})

	t.Run("plain error is internal", func(t *testing.T) {
		assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
		assert.Equal(t, "internal server error", MessageOf(errors.New("boom")))
	})

	t.Run("nil is not any kind", func(t *testing.T) {
		assert.False(t, Is(nil, KindInternal))
	})
}

func TestHTTPStatus(t *testing.T) {
	cases := map[Kind]int{
		KindBadRequest:      http.StatusBadRequest,
		KindUnauthorized:    http.StatusUnauthorized,
		KindForbidden:       http.StatusForbidden,
		KindNotFound:        http.StatusNotFound,
		KindConflict:        http.StatusConflict,
		KindTooManyRequests: http.StatusTooManyRequests,
		KindInternal:        http.StatusInternalServerError,
	}
	for kind, status := range cases {
		assert.Equal(t, status, kind.HTTPStatus(), kind.String())
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Internal("database error", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "database error: connection refused", err.Error())
	assert.Equal(t, "database error", MessageOf(err))
}
