package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urus/urus/lib/app"
	"github.com/urus/urus/lib/config"
	"github.com/urus/urus/lib/log"
	"github.com/urus/urus/lib/stats"
)

type fakeController struct {
	mu       sync.Mutex
	shutdown int
	reloads  []string
	running  bool
}

func (c *fakeController) Objects() []app.ObjectInfo {
	return []app.ObjectInfo{
		{Index: 0, Name: "left", VertexArray: 1, VertexBuffer: 3, Program: 5, Vertices: 3},
		{Index: 1, Name: "right", VertexArray: 2, VertexBuffer: 4, Program: 6, Vertices: 3, Texture: "container"},
	}
}

func (c *fakeController) Textures() []app.TextureInfo {
	return nil
}

func (c *fakeController) RequestShutdown() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.shutdown++
}

func (c *fakeController) RequestTextureReload(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running {
		return app.ErrNotInitialized
	}
	if name != "container" {
		return fmt.Errorf("%w: %s", app.ErrUnknownTexture, name)
	}
	c.reloads = append(c.reloads, name)
	return nil
}

func newTestApi(ctrl Controller) *Api {
	return New(&config.ApiCfg{Bind: "127.0.0.1:0"}, ctrl, stats.New(), log.New(&bytes.Buffer{}, slog.LevelDebug))
}

func do(t *testing.T, h http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestGetStats(t *testing.T) {
	a := newTestApi(&fakeController{})
	a.Stats.Update(2, 100)
	a.Stats.SetVisible(true)

	rec := do(t, a.Handler(), http.MethodGet, "/api/stats")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var s stats.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &s))
	assert.Equal(t, uint64(1), s.Frames)
	assert.Equal(t, uint64(2), s.DrawCalls)
	assert.Equal(t, uint64(100), s.TextureUpload)
	assert.True(t, s.Visible)
}

func TestGetObjects(t *testing.T) {
	a := newTestApi(&fakeController{})

	rec := do(t, a.Handler(), http.MethodGet, "/api/objects")
	require.Equal(t, http.StatusOK, rec.Code)

	var objects []app.ObjectInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &objects))
	require.Len(t, objects, 2)
	assert.Equal(t, "right", objects[1].Name)
	assert.Equal(t, "container", objects[1].Texture)
}

func TestGetTexturesEmpty(t *testing.T) {
	a := newTestApi(&fakeController{})

	rec := do(t, a.Handler(), http.MethodGet, "/api/textures")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
}

func TestKill(t *testing.T) {
	ctrl := &fakeController{}
	a := newTestApi(ctrl)

	rec := do(t, a.Handler(), http.MethodGet, "/api/kill")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Zero(t, ctrl.shutdown)

	rec = do(t, a.Handler(), http.MethodPost, "/api/kill")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "\"ok\"\n", rec.Body.String())
	assert.Equal(t, 1, ctrl.shutdown)
}

func TestReloadTexture(t *testing.T) {
	ctrl := &fakeController{}
	a := newTestApi(ctrl)

	rec := do(t, a.Handler(), http.MethodPost, "/api/textures/container/reload")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	ctrl.running = true
	rec = do(t, a.Handler(), http.MethodPost, "/api/textures/container/reload")
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, []string{"container"}, ctrl.reloads)

	rec = do(t, a.Handler(), http.MethodPost, "/api/textures/bricks/reload")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	a := newTestApi(&fakeController{})

	rec := do(t, a.Handler(), http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "urus_frames_rendered_total")
}

func TestProfilerIsOptIn(t *testing.T) {
	a := newTestApi(&fakeController{})
	rec := do(t, a.Handler(), http.MethodGet, "/prof")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestWebsocketStreamsStats(t *testing.T) {
	a := newTestApi(&fakeController{})
	a.StatsInterval = 10 * time.Millisecond
	a.Stats.Update(2, 0)

	srv := httptest.NewServer(a.Handler())
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws"
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer ws.Close()

	require.NoError(t, ws.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := ws.ReadMessage()
	require.NoError(t, err)

	var s stats.Snapshot
	require.NoError(t, json.Unmarshal(msg, &s))
	assert.Equal(t, uint64(1), s.Frames)
	assert.Equal(t, 1, s.WsClients)
}
