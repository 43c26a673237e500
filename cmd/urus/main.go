package main

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/urus/urus/lib/api"
	"github.com/urus/urus/lib/app"
	"github.com/urus/urus/lib/config"
	"github.com/urus/urus/lib/imgdecode"
	"github.com/urus/urus/lib/log"
	"github.com/urus/urus/lib/rendering/glbackend"
	"github.com/urus/urus/lib/window"
)

func init() {
	// The OpenGL stuff must be in one thread
	runtime.LockOSThread()
}

func main() {
	os.Exit(run(os.Args[1:]))
}

// run takes an optional config file followed by window toolkit arguments
// such as -geometry and -iconic.
func run(args []string) int {
	logger := log.New(os.Stderr, slog.LevelInfo)

	cfg := config.Default()
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		var err error
		cfg, err = config.Parse(args[0])
		if err != nil {
			logger.Error("Config invalid", "err", err)
			return 1
		}
		args = args[1:]
	}

	level, _ := log.ParseLevel(cfg.LogLevel)
	logger = log.New(os.Stderr, level)

	a := app.New(cfg, glbackend.New(), glbackend.Compiler{}, &imgdecode.Decoder{}, logger)
	a.SetWindow(window.New(cfg.Window.Title, cfg.Window.Width, cfg.Window.Height, logger))
	defer a.Close()

	err := a.Setup(args)
	if err != nil {
		logger.Error("Setup failed", "err", err)
		return 1
	}

	srv := api.ServeInBackground(a, a.Stats, cfg.Api, logger)
	if srv != nil {
		defer func() {
			if err := srv.Close(); err != nil {
				logger.Warn("could not stop web server", "err", err)
			}
		}()
	}

	err = a.Run()
	if err != nil {
		logger.Error(fmt.Sprintf("Render loop failed: %s", err))
		return 1
	}
	return 0
}
