package texwatch

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urus/urus/lib/log"
)

func TestWatcherReportsRewrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "container.jpg")
	require.NoError(t, os.WriteFile(path, []byte("a"), 0o644))

	var out bytes.Buffer
	w, err := New(log.New(&out, slog.LevelInfo))
	require.NoError(t, err)
	defer w.Close()
	require.NoError(t, w.Add("container", path))

	require.NoError(t, os.WriteFile(path, []byte("b"), 0o644))
	require.NoError(t, os.WriteFile(path, []byte("c"), 0o644))

	select {
	case name := <-w.Changes:
		assert.Equal(t, "container", name)
	case <-time.After(2 * time.Second):
		t.Fatal("no change reported")
	}

	select {
	case name := <-w.Changes:
		t.Fatalf("burst reported twice: %s", name)
	case <-time.After(3 * Settle):
	}
}

func TestWatcherMissingFile(t *testing.T) {
	var out bytes.Buffer
	w, err := New(log.New(&out, slog.LevelInfo))
	require.NoError(t, err)
	defer w.Close()

	assert.Error(t, w.Add("gone", filepath.Join(t.TempDir(), "gone.png")))
}

func TestWatcherCloseTwice(t *testing.T) {
	var out bytes.Buffer
	w, err := New(log.New(&out, slog.LevelInfo))
	require.NoError(t, err)

	assert.NoError(t, w.Close())
	assert.NoError(t, w.Close())
}

func TestLookupUsesWatchPathForFileWatches(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "container.jpg")
	require.NoError(t, os.WriteFile(path, []byte("a"), 0o644))

	var out bytes.Buffer
	w, err := New(log.New(&out, slog.LevelInfo))
	require.NoError(t, err)
	defer w.Close()
	require.NoError(t, w.Add("container", path))

	name, ok := w.lookup("", path)
	assert.True(t, ok)
	assert.Equal(t, "container", name)

	name, ok = w.lookup("", dir+"/./container.jpg")
	assert.True(t, ok)
	assert.Equal(t, "container", name)

	_, ok = w.lookup("", "")
	assert.False(t, ok)
	_, ok = w.lookup(filepath.Join(dir, "other.jpg"), dir)
	assert.False(t, ok)
}
