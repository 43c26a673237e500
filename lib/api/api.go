// Package api serves the HTTP control and monitoring interface.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/pprof"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/urus/urus/lib/app"
	"github.com/urus/urus/lib/config"
	"github.com/urus/urus/lib/metrics"
	"github.com/urus/urus/lib/stats"
)

// Controller is what the API drives. Every method must be safe to call
// from HTTP handler goroutines.
type Controller interface {
	Objects() []app.ObjectInfo
	Textures() []app.TextureInfo
	RequestShutdown()
	RequestTextureReload(name string) error
}

type Api struct {
	srv  http.Server
	mux  *http.ServeMux
	cfg  *config.ApiCfg
	ctrl Controller
	log  *slog.Logger

	Stats *stats.Stats

	// StatsInterval is how often websocket clients get a stats packet.
	StatsInterval time.Duration

	wsMu      sync.Mutex
	wsClients map[*websocket.Conn]bool
}

func New(cfg *config.ApiCfg, ctrl Controller, s *stats.Stats, logger *slog.Logger) *Api {
	a := &Api{}
	a.cfg = cfg
	a.mux = http.NewServeMux()
	a.ctrl = ctrl
	a.log = logger.With("module", "api")
	a.srv.Addr = cfg.Bind
	a.srv.Handler = a.mux
	a.wsClients = make(map[*websocket.Conn]bool)
	a.Stats = s
	a.StatsInterval = 2 * time.Second
	a.routes()
	return a
}

func (a *Api) routes() {
	if a.cfg.EnableProfiler {
		a.mux.HandleFunc("/prof", a.profileCPU)
	}
	a.mux.HandleFunc("POST /api/kill", a.suicide)
	a.mux.HandleFunc("GET /api/stats", a.getStats)
	a.mux.HandleFunc("GET /api/objects", a.getObjects)
	a.mux.HandleFunc("GET /api/textures", a.getTextures)
	a.mux.HandleFunc("POST /api/textures/{name}/reload", a.reloadTexture)
	a.mux.HandleFunc("/api/ws", a.handleWebsocket)
	a.mux.Handle("/metrics", metrics.Handler())
}

func (a *Api) Handler() http.Handler {
	return a.mux
}

func (a *Api) Serve() error {
	return a.srv.ListenAndServe()
}

func (a *Api) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		a.log.Error("could not write response", "err", err)
	}
}

func (a *Api) writeOk(w http.ResponseWriter) {
	_, err := fmt.Fprintf(w, "\"ok\"\n")
	if err != nil {
		a.log.Error("could not write response", "err", err)
	}
}

// @Summary	Record a 10 second CPU profile
// @Router		/prof [get]
// @Tags		debug
// @Produce	octet-stream
// @Success	200
func (a *Api) profileCPU(w http.ResponseWriter, _ *http.Request) {
	err := pprof.StartCPUProfile(w)
	if err != nil {
		http.Error(w, fmt.Sprintf("Could not start CPU profile: %s", err), http.StatusInternalServerError)
		return
	}
	time.Sleep(10 * time.Second)
	pprof.StopCPUProfile()
}

// @Summary	Shut the renderer down
// @Router		/api/kill [post]
// @Tags		base
// @Success	200
func (a *Api) suicide(w http.ResponseWriter, _ *http.Request) {
	a.log.Info("shutting down as per api request")
	a.ctrl.RequestShutdown()
	a.writeOk(w)
}

// @Summary	Get frame statistics
// @Router		/api/stats [get]
// @Tags		base
// @Produce	json
// @Success	200	{object}	stats.Snapshot
func (a *Api) getStats(w http.ResponseWriter, _ *http.Request) {
	a.writeJSON(w, a.Stats.Snapshot())
}

// @Summary	List the render objects
// @Router		/api/objects [get]
// @Tags		objects
// @Produce	json
// @Success	200	{array}	app.ObjectInfo
func (a *Api) getObjects(w http.ResponseWriter, _ *http.Request) {
	objects := a.ctrl.Objects()
	if objects == nil {
		objects = []app.ObjectInfo{}
	}
	a.writeJSON(w, objects)
}

// @Summary	List the textures and their loaded dimensions
// @Router		/api/textures [get]
// @Tags		textures
// @Produce	json
// @Success	200	{array}	app.TextureInfo
func (a *Api) getTextures(w http.ResponseWriter, _ *http.Request) {
	textures := a.ctrl.Textures()
	if textures == nil {
		textures = []app.TextureInfo{}
	}
	a.writeJSON(w, textures)
}

// @Summary	Reload a texture from disk on the next frame
// @Router		/api/textures/{name}/reload [post]
// @Tags		textures
// @Param		name	path	string	true	"Texture name"
// @Success	202
// @Failure	404	{string}	string	"Texture does not exist"
// @Failure	503	{string}	string	"Renderer not running"
func (a *Api) reloadTexture(w http.ResponseWriter, req *http.Request) {
	name := req.PathValue("name")
	err := a.ctrl.RequestTextureReload(name)
	switch {
	case errors.Is(err, app.ErrUnknownTexture):
		http.Error(w, fmt.Sprintf("could not reload: %s", err), http.StatusNotFound)
		return
	case errors.Is(err, app.ErrNotInitialized):
		http.Error(w, fmt.Sprintf("could not reload: %s", err), http.StatusServiceUnavailable)
		return
	case err != nil:
		http.Error(w, fmt.Sprintf("could not reload: %s", err), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusAccepted)
	a.writeOk(w)
}

func ServeInBackground(ctrl Controller, s *stats.Stats, cfg *config.ApiCfg, logger *slog.Logger) *Api {
	var theApi *Api
	if cfg != nil {
		theApi = New(cfg, ctrl, s, logger)

		theApi.log.Info(fmt.Sprintf("starting web server on %s", cfg.Bind))
		go func() {
			err := theApi.Serve()
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				theApi.log.Error("web server stopped", "err", err)
			}
		}()
	}
	return theApi
}

func (a *Api) Close() error {
	return a.srv.Close()
}
