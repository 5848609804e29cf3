package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches the configuration file for changes and reloads the global
// configuration. Changes are debounced so an editor's write-rename dance
// triggers a single reload.
type Watcher struct {
	path     string
	debounce time.Duration
	watcher  *fsnotify.Watcher
	onReload func(*Config)
}

// NewWatcher creates a watcher for the given configuration file. onReload is
// called with the freshly loaded configuration after each successful reload;
// it may be nil.
func NewWatcher(path string, onReload func(*Config)) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	// Watch the directory, not the file: most editors replace the file on
	// save, which drops a direct file watch.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch %q: %w", path, err)
	}

	return &Watcher{
		path:     path,
		debounce: 100 * time.Millisecond,
		watcher:  watcher,
		onReload: onReload,
	}, nil
}

// Watch processes file events until the context is cancelled. It blocks;
// run it in its own goroutine.
func (w *Watcher) Watch(ctx context.Context) {
	defer w.watcher.Close()

	var timer *time.Timer
	pending := make(chan struct{}, 1)

	slog.Info("configuration watcher started", "path", w.path)

	for {
		select {
		case <-ctx.Done():
			slog.Info("configuration watcher stopped")
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, func() {
				select {
				case pending <- struct{}{}:
				default:
				}
			})

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("configuration watcher error", "error", err)

		case <-pending:
			w.reload()
		}
	}
}

func (w *Watcher) reload() {
	if err := ReloadConfig(w.path); err != nil {
		slog.Error("configuration reload failed", "path", w.path, "error", err)
		return
	}

	slog.Info("configuration reloaded", "path", w.path)

	if w.onReload != nil {
		w.onReload(GetConfig())
	}
}
