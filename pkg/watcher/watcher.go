// Package watcher reruns work when input files change.
package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher coalesces changes to a set of files into debounced notifications
type Watcher struct {
	watcher  *fsnotify.Watcher
	logger   *slog.Logger
	debounce time.Duration

	mu      sync.Mutex
	files   map[string]struct{}
	dirs    map[string]struct{}
	pending map[string]struct{}
	timer   *time.Timer
	fire    chan struct{}
}

// New creates a watcher. A nil logger discards watcher errors.
func New(debounce time.Duration, logger *slog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Watcher{
		watcher:  fsw,
		logger:   logger,
		debounce: debounce,
		files:    make(map[string]struct{}),
		dirs:     make(map[string]struct{}),
		pending:  make(map[string]struct{}),
		fire:     make(chan struct{}, 1),
	}, nil
}

// Add starts watching the given files. Their directories are watched so
// files replaced by rename are still seen.
func (w *Watcher) Add(files ...string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, file := range files {
		absPath, err := filepath.Abs(file)
		if err != nil {
			return fmt.Errorf("failed to resolve path %s: %w", file, err)
		}

		dir := filepath.Dir(absPath)
		if _, ok := w.dirs[dir]; !ok {
			if err := w.watcher.Add(dir); err != nil {
				return fmt.Errorf("failed to watch %s: %w", dir, err)
			}
			w.dirs[dir] = struct{}{}
		}
		w.files[absPath] = struct{}{}
	}
	return nil
}

// Run calls onChange with the sorted absolute paths that changed, once per
// quiet period of the debounce interval. Calls never overlap. Run blocks
// until ctx is done, then closes the watcher.
func (w *Watcher) Run(ctx context.Context, onChange func(changed []string)) error {
	defer w.watcher.Close()

	for {
		select {
		case <-ctx.Done():
			w.mu.Lock()
			if w.timer != nil {
				w.timer.Stop()
			}
			w.mu.Unlock()
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				w.handleFileChange(event.Name)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watcher error", "error", err)

		case <-w.fire:
			if changed := w.takePending(); len(changed) > 0 {
				onChange(changed)
			}
		}
	}
}

// handleFileChange records a change and restarts the debounce timer
func (w *Watcher) handleFileChange(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.files[filepath.Clean(path)]; !ok {
		return
	}
	w.pending[filepath.Clean(path)] = struct{}{}

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		select {
		case w.fire <- struct{}{}:
		default:
		}
	})
}

func (w *Watcher) takePending() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	changed := make([]string, 0, len(w.pending))
	for path := range w.pending {
		changed = append(changed, path)
	}
	w.pending = make(map[string]struct{})
	sort.Strings(changed)
	return changed
}

// Close stops the watcher without running it
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
