package config

import (
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches the config file for changes and triggers reloads.
type Watcher struct {
	watcher  *fsnotify.Watcher
	filePath string
	onChange func(*Config)
	done     chan struct{}
	mu       sync.Mutex
	running  bool
}

// NewWatcher creates a file watcher for the config file at path.
// onChange is invoked with the freshly loaded config after every valid
// change; invalid configs are logged and skipped.
func NewWatcher(path string, onChange func(*Config)) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if path == "" {
		path = Path()
	}

	return &Watcher{
		watcher:  watcher,
		filePath: path,
		onChange: onChange,
		done:     make(chan struct{}),
	}, nil
}

// Start begins watching the config file for changes.
func (w *Watcher) Start() error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	// Watch the directory containing the file (more reliable for
	// editors that replace the file on save)
	dir := filepath.Dir(w.filePath)
	if err := w.watcher.Add(dir); err != nil {
		return err
	}

	go w.watch()
	return nil
}

// watch is the main watch loop.
func (w *Watcher) watch() {
	filename := filepath.Base(w.filePath)

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			if filepath.Base(event.Name) != filename {
				continue
			}

			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				slog.Debug("config file changed, reloading", "file", w.filePath)
				cfg, err := Load(w.filePath)
				if err != nil {
					slog.Warn("failed to reload config", "error", err)
					continue
				}
				if w.onChange != nil {
					w.onChange(cfg)
				}
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("config watcher error", "error", err)

		case <-w.done:
			return
		}
	}
}

// Stop stops the config watcher.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return nil
	}

	w.running = false
	close(w.done)
	return w.watcher.Close()
}
