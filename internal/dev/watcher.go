package dev

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/lumen-dev/lumen/internal/errors"
)

// Change is one debounced file change.
type Change struct {
	Path string
	Kind ReloadKind
}

// WatcherConfig configures the file watcher.
type WatcherConfig struct {
	// Paths are the directories to watch, recursively.
	Paths []string

	// Ignore lists path substrings that are skipped.
	Ignore []string

	// Debounce collapses change bursts into one event. Default 100ms.
	Debounce time.Duration
}

// DefaultIgnore lists path fragments skipped by default.
var DefaultIgnore = []string{
	".git",
	"node_modules",
	"dist",
	".lumen",
	".tmp",
	".swp",
	"~",
}

// Watcher monitors project directories and reports debounced changes.
type Watcher struct {
	config WatcherConfig
	log    *slog.Logger
	fs     *fsnotify.Watcher
}

// NewWatcher creates a watcher over the configured paths. Directories
// added later under a watched path are picked up automatically.
func NewWatcher(config WatcherConfig, log *slog.Logger) (*Watcher, error) {
	if config.Debounce == 0 {
		config.Debounce = 100 * time.Millisecond
	}
	if len(config.Ignore) == 0 {
		config.Ignore = DefaultIgnore
	}

	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Newf(errors.CategoryCLI, "creating file watcher: %v", err)
	}

	w := &Watcher{config: config, log: log, fs: fs}
	for _, root := range config.Paths {
		if err := w.addTree(root); err != nil {
			fs.Close()
			return nil, err
		}
	}
	return w, nil
}

func (w *Watcher) addTree(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			// Watched roots may not exist yet in a fresh project.
			return nil
		}
		if !info.IsDir() || w.ignored(path) {
			return nil
		}
		if err := w.fs.Add(path); err != nil {
			return errors.Newf(errors.CategoryCLI, "watching %s: %v", path, err)
		}
		return nil
	})
}

func (w *Watcher) ignored(path string) bool {
	for _, frag := range w.config.Ignore {
		if strings.Contains(path, frag) {
			return true
		}
	}
	return false
}

// Run delivers debounced changes to onChange until ctx is canceled.
// Bursts within the debounce window collapse into the last change.
func (w *Watcher) Run(ctx context.Context, onChange func(Change)) {
	var (
		timer   *time.Timer
		timerC  <-chan time.Time
		pending Change
	)

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if w.ignored(ev.Name) {
				continue
			}
			if ev.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					_ = w.addTree(ev.Name)
					continue
				}
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}

			pending = Change{Path: ev.Name, Kind: classify(ev.Name)}
			if timer == nil {
				timer = time.NewTimer(w.config.Debounce)
				timerC = timer.C
			} else {
				timer.Reset(w.config.Debounce)
			}

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.log.Warn("watch error", "error", err)

		case <-timerC:
			w.log.Debug("file changed", "path", pending.Path, "kind", pending.Kind)
			onChange(pending)
			timer = nil
			timerC = nil
		}
	}
}

// Close stops the underlying watcher.
func (w *Watcher) Close() error {
	return w.fs.Close()
}

// classify maps a changed file to the reload kind browsers need.
func classify(path string) ReloadKind {
	switch filepath.Ext(path) {
	case ".css":
		return ReloadCSS
	case ".html", ".htm":
		return ReloadContent
	default:
		return ReloadFull
	}
}
