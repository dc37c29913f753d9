package logger_test

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kawacukennedy/AgriCredit-Africa-sub000/core/logger"
)

func TestError(t *testing.T) {
	t.Parallel()
	err := errors.New("boom")
	attr := logger.Error(err)
	require.Equal(t, "error", attr.Key)
	assert.Equal(t, err, attr.Value.Any())

	empty := logger.Error(nil)
	assert.True(t, empty.Equal(slog.Attr{}))
}

func TestElapsed(t *testing.T) {
	t.Parallel()
	start := time.Now().Add(-500 * time.Millisecond)
	attr := logger.Elapsed(start)
	require.Equal(t, "elapsed", attr.Key)
	assert.GreaterOrEqual(t, attr.Value.Duration(), 500*time.Millisecond)
}

func TestSessionID(t *testing.T) {
	t.Parallel()
	attr := logger.SessionID("ATUid_123")
	require.Equal(t, "session_id", attr.Key)
	assert.Equal(t, "ATUid_123", attr.Value.String())

	empty := logger.SessionID("")
	assert.True(t, empty.Equal(slog.Attr{}))
}

func TestPhone(t *testing.T) {
	t.Parallel()
	attr := logger.Phone("+254712345678")
	require.Equal(t, "phone", attr.Key)
	masked := attr.Value.String()
	assert.Equal(t, "+254*******78", masked)
	assert.NotContains(t, masked, "1234567")

	short := logger.Phone("12345")
	assert.Equal(t, "*****", short.Value.String())

	empty := logger.Phone("")
	assert.True(t, empty.Equal(slog.Attr{}))
}
