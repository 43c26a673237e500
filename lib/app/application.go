// Package app owns the window, the GPU resources and the render loop.
package app

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/urus/urus/lib/config"
	"github.com/urus/urus/lib/metrics"
	"github.com/urus/urus/lib/rendering"
	"github.com/urus/urus/lib/rendering/shaders"
	"github.com/urus/urus/lib/stats"
	"github.com/urus/urus/lib/texwatch"
	"github.com/urus/urus/lib/utils"
)

var (
	ErrNoWindow           = errors.New("no window attached")
	ErrAlreadyInitialized = errors.New("application already initialized")
	ErrNotInitialized     = errors.New("application not initialized")
	ErrUnknownTexture     = errors.New("unknown texture")
)

type State int32

const (
	Uninitialized State = iota
	Initialized
)

func (s State) String() string {
	if s == Initialized {
		return "initialized"
	}
	return "uninitialized"
}

type Window interface {
	EventSource
	Title() string
	Open(args []string) error
	SetVisibilityCallback(f func(visible bool))
	SwapBuffers()
	Close() error
}

// ObjectInfo describes one render object. It is a copy, safe to hand to
// other goroutines.
type ObjectInfo struct {
	Index        int    `json:"index"`
	Name         string `json:"name"`
	VertexArray  uint32 `json:"vertex_array"`
	VertexBuffer uint32 `json:"vertex_buffer"`
	Program      uint32 `json:"program"`
	Vertices     int32  `json:"vertices"`
	Texture      string `json:"texture,omitempty"`
}

type TextureInfo struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Channels int    `json:"channels"`
}

// Application is the process wide controller. Apart from the methods
// documented as safe from any goroutine, it must only be used from the
// thread that owns the GL context.
type Application struct {
	cfg      *config.Config
	backend  rendering.Backend
	compiler shaders.Compiler
	decoder  rendering.ImageDecoder
	log      *slog.Logger

	window Window
	loop   *Loop
	state  atomic.Int32

	visible     bool
	clearColour mgl32.Vec4
	registry    *rendering.Registry
	textures    map[string]*rendering.Texture
	objMetrics  []metrics.ObjectMetrics
	watcher     *texwatch.Watcher
	reloads     chan string
	uploaded    uint64
	frameTimer  utils.DeltaTimer

	Stats *stats.Stats

	infoMu      sync.Mutex
	objectInfo  []ObjectInfo
	textureInfo []TextureInfo
}

func New(cfg *config.Config, b rendering.Backend, c shaders.Compiler, dec rendering.ImageDecoder, logger *slog.Logger) *Application {
	return &Application{
		cfg:      cfg,
		backend:  b,
		compiler: c,
		decoder:  dec,
		log:      logger.With("module", "app"),
		reloads:  make(chan string, 16),
		Stats:    stats.New(),
	}
}

func (a *Application) SetWindow(w Window) {
	a.window = w
}

func (a *Application) State() State {
	return State(a.state.Load())
}

func (a *Application) Visible() bool {
	return a.visible
}

// Loop is nil until Setup succeeded.
func (a *Application) Loop() *Loop {
	return a.loop
}

// Texture returns the named texture, or nil.
func (a *Application) Texture(name string) *rendering.Texture {
	return a.textures[name]
}

func (a *Application) Registry() *rendering.Registry {
	return a.registry
}

// Setup opens the window, creates every render object and loads the
// textures. A texture that fails to load is left empty; any other failure
// releases what was acquired so far and is returned.
func (a *Application) Setup(args []string) error {
	if a.State() == Initialized {
		return ErrAlreadyInitialized
	}
	if a.window == nil {
		return ErrNoWindow
	}

	err := a.window.Open(args)
	if err != nil {
		return fmt.Errorf("could not open window %s: %w", a.window.Title(), err)
	}
	a.window.SetVisibilityCallback(a.SetVisible)

	err = a.setupGPU()
	if err != nil {
		a.release()
		return err
	}

	a.loop = NewLoop(a.window)
	a.loop.SetDisplayFunc(a.Render)
	a.state.Store(int32(Initialized))
	a.SetVisible(true)
	a.log.Info(fmt.Sprintf("Set up %d objects and %d textures", a.registry.Len(), len(a.textures)))
	return nil
}

func (a *Application) setupGPU() error {
	_, err := rendering.Init(a.backend, a.log)
	if err != nil {
		return err
	}
	a.backend.Enable(rendering.DepthTest)
	a.clearColour = utils.ColourVec(utils.ColourParse(a.cfg.ClearColour))

	shaderer, err := shaders.NewShaderer(string(a.cfg.ShaderDir))
	if err != nil {
		return fmt.Errorf("could not load shaders: %w", err)
	}

	a.textures = make(map[string]*rendering.Texture, len(a.cfg.Textures))
	for _, name := range a.cfg.TextureNames() {
		a.textures[name] = rendering.NewTexture(a.backend, a.decoder, a.log)
	}

	a.registry = rendering.NewRegistry(a.backend, len(a.cfg.Objects))
	a.objMetrics = make([]metrics.ObjectMetrics, len(a.cfg.Objects))
	for i, o := range a.cfg.Objects {
		data := shaders.NewShaderData(utils.ColourParse(o.Colour))
		program, err := shaders.Build(shaderer, a.compiler, a.backend, o.VertexShader, o.FragmentShader, data)
		if err != nil {
			return fmt.Errorf("could not set up object %s: %w", o.Name, err)
		}

		vertices := make([]mgl32.Vec3, len(o.Vertices))
		for j, v := range o.Vertices {
			vertices[j] = mgl32.Vec3(v)
		}
		err = a.registry.Attach(i, o.Name, program, vertices)
		if err != nil {
			program.Release()
			return err
		}
		if o.Texture != "" {
			obj, _ := a.registry.Object(i)
			obj.Texture = a.textures[o.Texture]
			obj.TextureUniform = program.Uniform(shaders.SamplerUniform)
		}
		a.objMetrics[i] = metrics.NewObjectMetrics(o.Name)
	}

	for _, name := range a.cfg.TextureNames() {
		a.loadTexture(name, string(a.cfg.Textures[name].Path))
	}
	a.watchTextures()
	a.updateInfo()
	return nil
}

func (a *Application) watchTextures() {
	for _, name := range a.cfg.TextureNames() {
		tc := a.cfg.Textures[name]
		if !tc.Inotify {
			continue
		}
		if a.watcher == nil {
			w, err := texwatch.New(a.log)
			if err != nil {
				a.log.Warn("Texture hot reload disabled", "err", err)
				return
			}
			a.watcher = w
		}
		err := a.watcher.Add(name, string(tc.Path))
		if err != nil {
			a.log.Warn(fmt.Sprintf("Not watching texture %s", name), "err", err)
		}
	}
}

// loadTexture logs and counts failures instead of returning them.
func (a *Application) loadTexture(name, path string) {
	tex := a.textures[name]
	before := tex.UploadedBytes
	var err error
	if path == "" || path == tex.Path() {
		err = tex.Reload()
	} else {
		err = tex.Load(path)
	}
	metrics.TextureLoaded(name, err)
	metrics.TextureBytes.Add(float64(tex.UploadedBytes - before))
	a.uploaded += tex.UploadedBytes - before
}

// SetVisible is the visibility callback. Idling, and with it continuous
// redrawing, only happens while the window is visible.
func (a *Application) SetVisible(visible bool) {
	a.visible = visible
	a.Stats.SetVisible(visible)
	if visible {
		metrics.Visible.Set(1)
	} else {
		metrics.Visible.Set(0)
	}
	if a.loop == nil {
		return
	}
	// frames are not continuous across a hidden period
	a.frameTimer.Reset()
	if visible {
		a.loop.SetIdleFunc(a.Idle)
		a.loop.PostRedisplay()
	} else {
		a.loop.SetIdleFunc(nil)
		a.loop.CancelRedisplay()
	}
	a.log.Debug(fmt.Sprintf("Window visible: %t", visible))
}

// Idle performs queued texture reloads and asks for one redraw.
func (a *Application) Idle() {
	if !a.visible || a.loop == nil {
		return
	}
	a.drainReloads()
	a.loop.PostRedisplay()
	metrics.RedrawsRequested.Inc()
}

func (a *Application) drainReloads() {
	var changes <-chan string
	if a.watcher != nil {
		changes = a.watcher.Changes
	}
	reloaded := false
	for {
		select {
		case name := <-a.reloads:
			a.loadTexture(name, "")
			reloaded = true
		case name := <-changes:
			a.loadTexture(name, "")
			reloaded = true
		default:
			if reloaded {
				a.updateInfo()
			}
			return
		}
	}
}

// dropReloads forgets queued reload requests, which refer to textures that
// are about to be released.
func (a *Application) dropReloads() {
	for {
		select {
		case <-a.reloads:
		default:
			return
		}
	}
}

// Render draws one frame and presents it.
func (a *Application) Render() {
	if a.State() != Initialized {
		return
	}
	c := a.clearColour
	a.backend.ClearColor(c[0], c[1], c[2], c[3])
	a.backend.Clear(rendering.ColorBufferBit | rendering.DepthBufferBit)

	calls := a.registry.DrawEach(func(i int) {
		a.objMetrics[i].DrawCalls.Inc()
	})
	a.window.SwapBuffers()

	metrics.FramesRendered.Inc()
	if dt := a.frameTimer.Next(); dt > 0 {
		metrics.FrameTime.Observe(dt.Seconds())
	}
	a.Stats.Update(calls, a.uploaded)
}

// Run drives the loop until the window closes or a shutdown is requested.
func (a *Application) Run() error {
	if a.State() != Initialized {
		return ErrNotInitialized
	}
	a.loop.Run()
	return nil
}

// RequestShutdown stops Run. Safe from any goroutine.
func (a *Application) RequestShutdown() {
	if a.loop != nil {
		a.loop.RequestShutdown()
	}
}

// RequestTextureReload queues a reload of the named texture for the next
// idle. Safe from any goroutine.
func (a *Application) RequestTextureReload(name string) error {
	if a.State() != Initialized {
		return ErrNotInitialized
	}
	if _, ok := a.cfg.Textures[name]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTexture, name)
	}
	select {
	case a.reloads <- name:
	default:
		a.log.Warn(fmt.Sprintf("Reload queue full, dropping reload of %s", name))
	}
	a.window.Wake()
	return nil
}

// Objects is safe from any goroutine.
func (a *Application) Objects() []ObjectInfo {
	a.infoMu.Lock()
	defer a.infoMu.Unlock()
	return append([]ObjectInfo(nil), a.objectInfo...)
}

// Textures is safe from any goroutine.
func (a *Application) Textures() []TextureInfo {
	a.infoMu.Lock()
	defer a.infoMu.Unlock()
	return append([]TextureInfo(nil), a.textureInfo...)
}

func (a *Application) updateInfo() {
	var objects []ObjectInfo
	if a.registry != nil && !a.registry.Released() {
		for i := range a.registry.Len() {
			obj, _ := a.registry.Object(i)
			info := ObjectInfo{
				Index:        i,
				Name:         obj.Name,
				VertexArray:  obj.VertexArray,
				VertexBuffer: obj.VertexBuffer.Handle(),
				Vertices:     obj.VertexCount(),
				Texture:      a.cfg.Objects[i].Texture,
			}
			if obj.Program != nil {
				info.Program = obj.Program.ID()
			}
			objects = append(objects, info)
		}
	}
	var textures []TextureInfo
	for _, name := range a.cfg.TextureNames() {
		tex, ok := a.textures[name]
		if !ok {
			continue
		}
		textures = append(textures, TextureInfo{
			Name:     name,
			Path:     tex.Path(),
			Width:    tex.Width(),
			Height:   tex.Height(),
			Channels: tex.Channels(),
		})
	}

	a.infoMu.Lock()
	a.objectInfo = objects
	a.textureInfo = textures
	a.infoMu.Unlock()
}

// Shutdown releases every GPU object and closes the window. Calling it
// again, or before Setup, does nothing.
func (a *Application) Shutdown() error {
	if a.State() != Initialized {
		return nil
	}
	err := a.release()
	a.log.Info("Shut down")
	return err
}

func (a *Application) release() error {
	var errs []error
	a.dropReloads()
	if a.watcher != nil {
		errs = append(errs, a.watcher.Close())
		a.watcher = nil
	}
	if a.registry != nil {
		a.registry.Release()
		a.registry = nil
	}
	for _, tex := range a.textures {
		tex.Release()
	}
	a.textures = nil
	a.objMetrics = nil
	errs = append(errs, rendering.CheckError(a.backend))
	errs = append(errs, a.window.Close())

	if a.loop != nil {
		a.loop.SetIdleFunc(nil)
		a.loop.SetDisplayFunc(nil)
		a.loop.CancelRedisplay()
	}
	a.visible = false
	a.state.Store(int32(Uninitialized))
	a.updateInfo()
	return errors.Join(errs...)
}

// Close is the last resort teardown for deferred use. Failures, panics
// included, are logged and swallowed.
func (a *Application) Close() {
	defer func() {
		if r := recover(); r != nil {
			a.log.Error(fmt.Sprintf("Panic during shutdown: %v", r))
		}
	}()
	err := a.Shutdown()
	if err != nil {
		a.log.Error("Shutdown failed", "err", err)
	}
}
