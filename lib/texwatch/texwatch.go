// Package texwatch notices when texture files are rewritten on disk.
package texwatch

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/jhenstridge/go-inotify"
)

// Settle is how long to wait after a write before reporting it, so
// editors that write in several steps are seen once.
const Settle = 100 * time.Millisecond

// Watcher reports the names of watched textures whose files were closed
// after writing. Changes is drained by the render thread. Writes to the
// same file within Settle of each other are reported once.
type Watcher struct {
	Changes chan string

	watcher *inotify.Watcher
	log     *slog.Logger
	done    chan struct{}
	once    sync.Once

	mu    sync.Mutex
	names map[string]string
}

func New(logger *slog.Logger) (*Watcher, error) {
	iw, err := inotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("could not start inotify watcher: %w", err)
	}
	w := &Watcher{
		Changes: make(chan string, 16),
		watcher: iw,
		log:     logger.With("module", "texwatch"),
		names:   make(map[string]string),
		done:    make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// Add watches path and reports changes under name.
func (w *Watcher) Add(name, path string) error {
	path = filepath.Clean(path)
	w.mu.Lock()
	w.names[path] = name
	w.mu.Unlock()

	_, err := w.watcher.Watch(path)
	if err != nil {
		return fmt.Errorf("could not watch %s: %w", path, err)
	}
	w.log.Debug(fmt.Sprintf("Watching %s for texture %s", path, name))
	return nil
}

// lookup maps an event to a texture name. Events on a watched file carry
// no name of their own, only the path of the watch they came from.
func (w *Watcher) lookup(name, watchPath string) (string, bool) {
	path := name
	if path == "" {
		path = watchPath
	}
	if path == "" {
		return "", false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	texture, ok := w.names[filepath.Clean(path)]
	return texture, ok
}

func (w *Watcher) run() {
	pending := make(map[string]time.Time)
	ticker := time.NewTicker(Settle / 2)
	defer ticker.Stop()

	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.watcher.Event:
			if !ok {
				return
			}
			if ev.Mask&inotify.IN_CLOSE_WRITE == 0 {
				continue
			}
			watchPath := ""
			if ev.Watch != nil {
				watchPath = ev.Watch.Path
			}
			name, ok := w.lookup(ev.Name, watchPath)
			if !ok {
				continue
			}
			if _, ok := pending[name]; !ok {
				pending[name] = time.Now()
			}
		case now := <-ticker.C:
			for name, since := range pending {
				if now.Sub(since) >= Settle {
					delete(pending, name)
					w.notify(name)
				}
			}
		}
	}
}

func (w *Watcher) notify(name string) {
	select {
	case w.Changes <- name:
		w.log.Debug(fmt.Sprintf("Texture %s changed on disk", name))
	default:
		w.log.Warn(fmt.Sprintf("Dropping change of texture %s, too many pending", name))
	}
}

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		err = w.watcher.Close()
	})
	return err
}
