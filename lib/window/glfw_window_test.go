package window

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/urus/urus/lib/log"
)

// Wake and Close on a window that was never opened must not reach GLFW,
// which is not initialised in tests.
func TestWakeBeforeOpenAndAfterClose(t *testing.T) {
	w := New("test", 64, 64, log.New(&bytes.Buffer{}, slog.LevelInfo))

	assert.NotPanics(t, w.Wake)
	assert.NoError(t, w.Close())
	assert.NotPanics(t, w.Wake)
	assert.True(t, w.ShouldClose())
}
