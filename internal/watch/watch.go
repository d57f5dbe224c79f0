// Package watch re-runs work when a file changes on disk.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/Iron-Ham/triage/internal/logging"
)

// DefaultDebounce is used when a Watcher is created with a non-positive delay.
const DefaultDebounce = 200 * time.Millisecond

// ChangeFunc is called with the path that changed.
type ChangeFunc func(path string)

// Watcher calls a function after a watched file is written or recreated.
// Bursts of events within the debounce delay collapse into one call.
type Watcher struct {
	watcher  *fsnotify.Watcher
	debounce time.Duration
	onChange ChangeFunc
	logger   *logging.Logger

	mu      sync.Mutex
	targets map[string]bool // cleaned absolute paths
	dirs    map[string]bool
}

// New creates a Watcher. A nil logger disables logging.
func New(debounce time.Duration, onChange ChangeFunc, logger *logging.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Watcher{
		watcher:  fw,
		debounce: debounce,
		onChange: onChange,
		logger:   logger.WithComponent("watch"),
		targets:  make(map[string]bool),
		dirs:     make(map[string]bool),
	}, nil
}

// Add starts watching path. The parent directory is watched so that editors
// which replace files by rename are still seen.
func (w *Watcher) Add(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	dir := filepath.Dir(abs)
	if !w.dirs[dir] {
		if err := w.watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch directory: %w", err)
		}
		w.dirs[dir] = true
	}
	w.targets[abs] = true
	return nil
}

func (w *Watcher) isTarget(name string) bool {
	abs, err := filepath.Abs(name)
	if err != nil {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.targets[abs]
}

// Run processes filesystem events until ctx is cancelled, then closes the
// underlying watcher. onChange runs on Run's goroutine.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() { _ = w.watcher.Close() }()

	debounceTimer := time.NewTimer(0)
	<-debounceTimer.C // drain initial timer
	var pending string

	for {
		select {
		case <-ctx.Done():
			debounceTimer.Stop()
			return nil

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.isTarget(ev.Name) {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.logger.Debug("file event", "path", ev.Name, "op", ev.Op.String())
			pending = ev.Name
			debounceTimer.Reset(w.debounce)

		case <-debounceTimer.C:
			if pending == "" {
				continue
			}
			path := pending
			pending = ""
			w.logger.Info("file changed", "path", path)
			if w.onChange != nil {
				w.onChange(path)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "error", err)
		}
	}
}
