package daemon

import (
	"log/slog"
	"reflect"
	"sync"

	"github.com/jmylchreest/hud/internal/config"
)

// ConfigWatcher reloads the config file when it changes. A config that
// fails to parse or validate is reported and the previous one kept.
type ConfigWatcher struct {
	mu     sync.RWMutex
	logger *slog.Logger
	files  *FileWatcher
	path   string

	current *config.Config

	onReload func(newConfig *config.Config)
	onError  func(err error)
}

// NewConfigWatcher creates a watcher for the config at path, starting from
// initial. An empty path uses config.ConfigPath().
func NewConfigWatcher(files *FileWatcher, path string, initial *config.Config, logger *slog.Logger) *ConfigWatcher {
	if logger == nil {
		logger = slog.Default()
	}
	if path == "" {
		path = config.ConfigPath()
	}
	return &ConfigWatcher{
		logger:  logger,
		files:   files,
		path:    path,
		current: initial,
	}
}

// SetReloadCallback sets the callback invoked with a changed, valid config.
func (w *ConfigWatcher) SetReloadCallback(callback func(newConfig *config.Config)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onReload = callback
}

// SetErrorCallback sets the callback invoked when a reload fails.
func (w *ConfigWatcher) SetErrorCallback(callback func(err error)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onError = callback
}

// Start registers the config file with the file watcher.
func (w *ConfigWatcher) Start() error {
	if err := w.files.Watch(w.path, w.Reload); err != nil {
		return err
	}
	w.logger.Debug("config watcher started", "path", w.path)
	return nil
}

// Stop unregisters the config file.
func (w *ConfigWatcher) Stop() {
	w.files.Unwatch(w.path)
}

// Current returns the last valid config.
func (w *ConfigWatcher) Current() *config.Config {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

// Path returns the watched config path.
func (w *ConfigWatcher) Path() string {
	return w.path
}

// Reload loads the config file and applies it if valid and changed.
func (w *ConfigWatcher) Reload() {
	newConfig, err := config.Load(w.path)

	w.mu.Lock()
	onReload, onError := w.onReload, w.onError
	if err != nil {
		w.mu.Unlock()
		w.logger.Warn("config reload failed, keeping previous config", "path", w.path, "error", err)
		if onError != nil {
			onError(err)
		}
		return
	}
	if reflect.DeepEqual(newConfig, w.current) {
		w.mu.Unlock()
		w.logger.Debug("config unchanged", "path", w.path)
		return
	}
	w.current = newConfig
	w.mu.Unlock()

	w.logger.Info("config reloaded", "path", w.path)
	if onReload != nil {
		onReload(newConfig)
	}
}
