package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce collapses the burst of events an editor produces on save.
const DefaultDebounce = 200 * time.Millisecond

// FileWatcher watches individual files for changes and runs a callback per
// file. Parent directories are watched so atomic saves (write to a temp
// file, rename over the original) are seen.
type FileWatcher struct {
	mu       sync.Mutex
	logger   *slog.Logger
	watcher  *fsnotify.Watcher
	debounce time.Duration

	callbacks map[string]func()
	dirs      map[string]int
	timers    map[string]*time.Timer

	stopCh  chan struct{}
	doneCh  chan struct{}
	running bool
}

// NewFileWatcher creates a file watcher.
func NewFileWatcher(logger *slog.Logger) (*FileWatcher, error) {
	if logger == nil {
		logger = slog.Default()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	return &FileWatcher{
		logger:    logger,
		watcher:   watcher,
		debounce:  DefaultDebounce,
		callbacks: make(map[string]func()),
		dirs:      make(map[string]int),
		timers:    make(map[string]*time.Timer),
	}, nil
}

// SetDebounce sets how long a file must be quiet before its callback runs.
func (w *FileWatcher) SetDebounce(d time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.debounce = d
}

// Watch registers callback for changes to path. Registering the same path
// again replaces the callback.
func (w *FileWatcher) Watch(path string, callback func()) error {
	path = filepath.Clean(path)
	dir := filepath.Dir(path)

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.callbacks[path]; ok {
		w.callbacks[path] = callback
		return nil
	}

	if w.dirs[dir] == 0 {
		if err := w.watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}
	w.dirs[dir]++
	w.callbacks[path] = callback

	w.logger.Debug("watching file", "path", path)
	return nil
}

// Unwatch removes the callback for path.
func (w *FileWatcher) Unwatch(path string) {
	path = filepath.Clean(path)
	dir := filepath.Dir(path)

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.callbacks[path]; !ok {
		return
	}
	delete(w.callbacks, path)
	if timer, ok := w.timers[path]; ok {
		timer.Stop()
		delete(w.timers, path)
	}

	w.dirs[dir]--
	if w.dirs[dir] <= 0 {
		delete(w.dirs, dir)
		if err := w.watcher.Remove(dir); err != nil {
			w.logger.Debug("failed to remove watch", "dir", dir, "error", err)
		}
	}
}

// Start begins dispatching events until Stop or ctx is cancelled.
func (w *FileWatcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return nil
	}
	w.running = true
	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})

	go w.watchLoop(ctx, w.stopCh, w.doneCh)
	return nil
}

// Stop stops dispatching and releases the underlying watcher.
func (w *FileWatcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return w.watcher.Close()
	}
	w.running = false
	close(w.stopCh)
	doneCh := w.doneCh
	for path, timer := range w.timers {
		timer.Stop()
		delete(w.timers, path)
	}
	w.mu.Unlock()

	<-doneCh
	return w.watcher.Close()
}

func (w *FileWatcher) watchLoop(ctx context.Context, stopCh, doneCh chan struct{}) {
	defer close(doneCh)

	for {
		select {
		case <-ctx.Done():
			w.mu.Lock()
			w.running = false
			w.mu.Unlock()
			return
		case <-stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				w.schedule(filepath.Clean(event.Name))
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("file watcher error", "error", err)
		}
	}
}

// schedule (re)starts the debounce timer for a watched path.
func (w *FileWatcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.callbacks[path]; !ok {
		return
	}
	if timer, ok := w.timers[path]; ok {
		timer.Reset(w.debounce)
		return
	}
	w.timers[path] = time.AfterFunc(w.debounce, func() { w.fire(path) })
}

func (w *FileWatcher) fire(path string) {
	w.mu.Lock()
	delete(w.timers, path)
	callback := w.callbacks[path]
	running := w.running
	w.mu.Unlock()

	if callback == nil || !running {
		return
	}
	w.logger.Debug("file changed", "path", path)
	callback()
}
