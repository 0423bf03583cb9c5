package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/justsurfingit/alumni-hub/internal/config"
)

func TestNew(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		logger, err := New(config.LogConfig{Level: "debug", Format: "json"})
		require.NoError(t, err)
		assert.True(t, logger.Core().Enabled(zap.DebugLevel))
	})

	t.Run("console at warn", func(t *testing.T) {
		logger, err := New(config.LogConfig{Level: "warn", Format: "console"})
		require.NoError(t, err)
		assert.False(t, logger.Core().Enabled(zap.InfoLevel))
	})

	t.Run("bad level", func(t *testing.T) {
		_, err := New(config.LogConfig{Level: "loud", Format: "json"})
		assert.Error(t, err)
	})

	t.Run("bad format", func(t *testing.T) {
		_, err := New(config.LogConfig{Level: "info", Format: "xml"})
		assert.Error(t, err)
	})
}

func TestFromContext(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	base := zap.New(core)

	ctx := WithRequestID(context.Background(), "req-123")
	FromContext(ctx, base).Info("hello")
	FromContext(context.Background(), base).Info("bare")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "req-123", entries[0].ContextMap()["request.id"])
	assert.NotContains(t, entries[1].ContextMap(), "request.id")
	assert.Equal(t, "req-123", RequestIDFromContext(ctx))
}
