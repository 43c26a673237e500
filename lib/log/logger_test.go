package log

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandlerPrintsModuleAndMessage(t *testing.T) {
	var out bytes.Buffer
	logger := New(&out, slog.LevelInfo).With("module", "texture")

	logger.Info("loaded container.jpg")

	line := out.String()
	assert.Contains(t, line, "[texture] ")
	assert.Contains(t, line, "loaded container.jpg\n")
	assert.Contains(t, line, "INFO")
}

func TestHandlerAppendsError(t *testing.T) {
	var out bytes.Buffer
	logger := New(&out, slog.LevelInfo)

	logger.Warn("texture load failed", "err", errors.New("no such file"))

	assert.Contains(t, out.String(), "texture load failed: no such file")
}

func TestHandlerRespectsLevel(t *testing.T) {
	var out bytes.Buffer
	logger := New(&out, slog.LevelWarn)

	logger.Info("hidden")
	logger.Debug("hidden too")
	assert.Empty(t, out.String())

	logger.Error("shown")
	assert.Contains(t, out.String(), "shown")
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{
		"":        slog.LevelInfo,
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	} {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}
