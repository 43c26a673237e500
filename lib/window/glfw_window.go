// Package window opens the GLFW window and GL context the renderer draws
// into.
package window

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/go-gl/glfw/v3.3/glfw"
)

type GLFWWindow struct {
	title  string
	width  int
	height int
	log    *slog.Logger

	window     *glfw.Window
	visibility func(visible bool)

	// mu guards open against Wake racing with Close
	mu   sync.Mutex
	open bool
}

func New(title string, width, height int, logger *slog.Logger) *GLFWWindow {
	return &GLFWWindow{
		title:  title,
		width:  width,
		height: height,
		log:    logger.With("module", "window"),
	}
}

func (w *GLFWWindow) Title() string {
	return w.title
}

// Open initialises GLFW and creates the window with a current 4.1 core
// context. It must be called from the locked main thread.
func (w *GLFWWindow) Open(args []string) error {
	if w.window != nil {
		return fmt.Errorf("window %s is already open", w.title)
	}
	opts, err := ParseArgs(args, w.width, w.height)
	if err != nil {
		return err
	}
	for _, a := range opts.Unknown {
		w.log.Debug(fmt.Sprintf("Ignoring argument %s", a))
	}

	w.log.Debug("Initializing window")
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("failed to initialize glfw: %w", err)
	}

	glfw.WindowHint(glfw.Resizable, glfw.False)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.DoubleBuffer, glfw.True)
	glfw.WindowHint(glfw.DepthBits, 24)

	window, err := glfw.CreateWindow(opts.Width, opts.Height, w.title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return fmt.Errorf("could not create window: %w", err)
	}
	w.window = window
	w.width, w.height = opts.Width, opts.Height
	w.mu.Lock()
	w.open = true
	w.mu.Unlock()

	window.MakeContextCurrent()
	glfw.SwapInterval(1)

	window.SetIconifyCallback(func(_ *glfw.Window, iconified bool) {
		if w.visibility != nil {
			w.visibility(!iconified)
		}
	})
	if opts.HasPos {
		window.SetPos(opts.X, opts.Y)
	}
	if opts.Iconic {
		window.Iconify()
	}

	w.log.Info(fmt.Sprintf("Opened %s (%dx%d)", w.title, w.width, w.height))
	return nil
}

// SetVisibilityCallback registers f to be told when the window is
// iconified or restored.
func (w *GLFWWindow) SetVisibilityCallback(f func(visible bool)) {
	w.visibility = f
}

func (w *GLFWWindow) SwapBuffers() {
	w.window.SwapBuffers()
}

func (w *GLFWWindow) ShouldClose() bool {
	return w.window == nil || w.window.ShouldClose()
}

func (w *GLFWWindow) PollEvents() {
	glfw.PollEvents()
}

func (w *GLFWWindow) WaitEvents() {
	glfw.WaitEvents()
}

// Wake makes a blocked WaitEvents return. Safe from any goroutine; it
// does nothing while the window is not open.
func (w *GLFWWindow) Wake() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.open {
		return
	}
	glfw.PostEmptyEvent()
}

func (w *GLFWWindow) Close() error {
	if w.window == nil {
		return nil
	}
	w.mu.Lock()
	w.open = false
	w.mu.Unlock()

	w.window.Destroy()
	w.window = nil
	glfw.Terminate()
	return nil
}
