package testutil

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogRecorder(t *testing.T) {
	logger, rec := NewTestLogger(t)

	logger.With(slog.String("component", "test")).Info("first", slog.Int("n", 1))
	logger.Error("second")

	assert.Len(t, rec.Records(), 2)
	assert.True(t, rec.HasMessage("first"))
	assert.True(t, rec.HasAttr("component", "test"))
	assert.True(t, rec.HasAttr("n", int64(1)))
	assert.False(t, rec.HasAttr("component", "other"))
	assert.Len(t, rec.AtLevel(slog.LevelError), 1)
}
