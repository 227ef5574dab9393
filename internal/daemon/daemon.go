package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/jmylchreest/hud/internal/config"
	"github.com/jmylchreest/hud/internal/dbus"
	"github.com/jmylchreest/hud/internal/model"
	"github.com/jmylchreest/hud/internal/render"
	"github.com/jmylchreest/hud/internal/service"
)

// Chime plays the notification sound.
type Chime interface {
	Play() error
	UpdateConfig(cfg config.AudioConfig)
	SoundPath() string
	Reload()
	Close()
}

// Options configures a Daemon.
type Options struct {
	Config     *config.Config // Nil uses config.DefaultConfig()
	ConfigPath string         // Watched for hot reload; empty uses config.ConfigPath()
	Surface    render.Surface
	Chime      Chime // Optional
	NoDBus     bool  // Skip the session bus (tests, headless runs without a bus)
	Logger     *slog.Logger
}

// Daemon wires the overlay service to its outer surfaces: the D-Bus
// server, the desktop notification bridge, the chime and config reload.
// GTK specific reactions are attached with OnConfigChange.
type Daemon struct {
	mu     sync.Mutex
	logger *slog.Logger
	cfg    *config.Config

	service *service.Service
	server  *dbus.Server
	monitor *dbus.Monitor
	bridge  *Bridge
	chime   Chime
	status  *StatusNotifier

	files         *FileWatcher
	configWatcher *ConfigWatcher
	soundPath     string

	monitoring     bool
	configHandlers []func(*config.Config)
}

// New creates a daemon. Nothing is started until Start.
func New(opts Options) (*Daemon, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if opts.Surface == nil {
		return nil, errors.New("daemon requires a surface")
	}

	svc := service.New(opts.Surface, service.Options{
		TickInterval:    cfg.Overlay.TickInterval.Duration(),
		DefaultColor:    cfg.Overlay.DefaultColor,
		DefaultDuration: serviceDuration(cfg.Overlay.DefaultDuration),
		Logger:          logger.With("component", "service"),
	})

	files, err := NewFileWatcher(logger.With("component", "watcher"))
	if err != nil {
		return nil, err
	}

	d := &Daemon{
		logger:  logger,
		cfg:     cfg,
		service: svc,
		chime:   opts.Chime,
		status:  NewStatusNotifier(svc, logger),
		bridge:  NewBridge(svc, cfg.Bridge, logger.With("component", "bridge")),
		files:   files,
	}
	d.status.SetEnabled(cfg.Overlay.StatusMessages)
	d.configWatcher = NewConfigWatcher(files, opts.ConfigPath, cfg, logger.With("component", "config"))
	d.configWatcher.SetReloadCallback(d.applyConfig)
	d.configWatcher.SetErrorCallback(d.status.NotifyConfigError)

	if !opts.NoDBus {
		d.server = dbus.NewServer(svc, logger.With("component", "dbus"))
		d.monitor = dbus.NewMonitor(logger.With("component", "monitor"))
		d.monitor.SetNotifyHandler(func(n *dbus.DesktopNotification) {
			d.bridge.Handle(n)
		})
	}

	svc.OnSend(d.handleSend)
	svc.OnChange(d.handleChange)
	svc.OnExpire(d.handleExpire)

	return d, nil
}

// serviceDuration maps the configured default duration onto the service.
// A configured zero means permanent, which the service spells as negative
// since zero there means unset.
func serviceDuration(d config.Duration) time.Duration {
	if d.Duration() == 0 {
		return -1
	}
	return d.Duration()
}

// Service returns the overlay service.
func (d *Daemon) Service() *service.Service {
	return d.service
}

// Status returns the status notifier.
func (d *Daemon) Status() *StatusNotifier {
	return d.status
}

// Bridge returns the desktop notification bridge.
func (d *Daemon) Bridge() *Bridge {
	return d.bridge
}

// Config returns the active config.
func (d *Daemon) Config() *config.Config {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cfg
}

// OnConfigChange registers a handler run after each successful reload.
func (d *Daemon) OnConfigChange(handler func(*config.Config)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.configHandlers = append(d.configHandlers, handler)
}

// WatchFile runs callback when path changes.
func (d *Daemon) WatchFile(path string, callback func()) error {
	return d.files.Watch(path, callback)
}

// UnwatchFile stops watching path.
func (d *Daemon) UnwatchFile(path string) {
	d.files.Unwatch(path)
}

// Start starts expiry, the D-Bus server, the bridge and the watchers.
// Failing to own the bus name is fatal; the other parts degrade with a
// warning.
func (d *Daemon) Start(ctx context.Context) error {
	if d.server != nil {
		if err := d.server.Start(); err != nil {
			return fmt.Errorf("failed to start D-Bus server: %w", err)
		}
	}

	d.service.Start(ctx)

	if err := d.files.Start(ctx); err != nil {
		d.logger.Warn("failed to start file watcher", "error", err)
	}

	if err := os.MkdirAll(filepath.Dir(d.configWatcher.Path()), 0700); err != nil {
		d.logger.Warn("failed to create config directory", "error", err)
	}
	if err := d.configWatcher.Start(); err != nil {
		d.logger.Warn("failed to start config watcher", "error", err)
	}

	d.mu.Lock()
	cfg := d.cfg
	d.mu.Unlock()
	d.updateBridge(cfg.Bridge)
	d.watchSound()

	d.logger.Info("hudd ready",
		"dbus", d.server != nil,
		"bridge", cfg.Bridge.Enabled,
		"expiry", d.service.Running(),
	)
	return nil
}

// Stop shuts everything down. Notifications on screen are left as they are.
func (d *Daemon) Stop() {
	d.configWatcher.Stop()
	if err := d.files.Stop(); err != nil {
		d.logger.Debug("failed to stop file watcher", "error", err)
	}
	d.service.Stop()

	d.mu.Lock()
	monitoring := d.monitoring
	d.monitoring = false
	d.mu.Unlock()
	if monitoring {
		if err := d.monitor.Stop(); err != nil {
			d.logger.Debug("failed to stop monitor", "error", err)
		}
	}

	if d.server != nil {
		if err := d.server.Stop(); err != nil {
			d.logger.Debug("failed to stop D-Bus server", "error", err)
		}
	}
	if d.chime != nil {
		d.chime.Close()
	}
}

// Reload re-reads the config file now.
func (d *Daemon) Reload() {
	d.configWatcher.Reload()
}

func (d *Daemon) applyConfig(cfg *config.Config) {
	d.mu.Lock()
	old := d.cfg
	d.cfg = cfg
	handlers := append([]func(*config.Config){}, d.configHandlers...)
	d.mu.Unlock()

	if cfg.Overlay.TickInterval != old.Overlay.TickInterval {
		d.logger.Warn("tick_interval change takes effect after restart",
			"current", d.service.TickInterval(),
			"configured", cfg.Overlay.TickInterval,
		)
	}
	d.service.SetDefaults(cfg.Overlay.DefaultColor, serviceDuration(cfg.Overlay.DefaultDuration))
	d.status.SetEnabled(cfg.Overlay.StatusMessages)

	if d.chime != nil {
		d.chime.UpdateConfig(cfg.Audio)
		d.watchSound()
	}
	d.updateBridge(cfg.Bridge)

	for _, handler := range handlers {
		handler(cfg)
	}

	d.status.NotifyConfigReloaded()
}

// updateBridge starts or stops the desktop notification monitor.
func (d *Daemon) updateBridge(cfg config.BridgeConfig) {
	d.bridge.UpdateConfig(cfg)
	if d.monitor == nil {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	switch {
	case cfg.Enabled && !d.monitoring:
		if err := d.monitor.Start(); err != nil {
			d.logger.Warn("failed to start desktop notification bridge", "error", err)
			return
		}
		d.monitoring = true
	case !cfg.Enabled && d.monitoring:
		if err := d.monitor.Stop(); err != nil {
			d.logger.Debug("failed to stop desktop notification bridge", "error", err)
		}
		d.monitoring = false
	}
}

// watchSound follows the configured chime file so edits are picked up.
func (d *Daemon) watchSound() {
	if d.chime == nil {
		return
	}

	path := d.chime.SoundPath()

	d.mu.Lock()
	old := d.soundPath
	d.soundPath = path
	d.mu.Unlock()

	if old == path {
		return
	}
	if old != "" {
		d.files.Unwatch(old)
	}
	if path != "" {
		if err := d.files.Watch(path, d.chime.Reload); err != nil {
			d.logger.Warn("failed to watch sound file", "path", path, "error", err)
		}
	}
}

func (d *Daemon) handleSend(n model.Notification) {
	if d.chime == nil {
		return
	}
	go func() {
		if err := d.chime.Play(); err != nil {
			d.logger.Debug("failed to play chime", "error", err)
			d.status.NotifyAudioError(err)
		}
	}()
}

func (d *Daemon) handleChange(count int) {
	if d.server == nil {
		return
	}
	if err := d.server.EmitChanged(count); err != nil && !errors.Is(err, dbus.ErrNotConnected) {
		d.logger.Debug("failed to emit Changed", "error", err)
	}
}

func (d *Daemon) handleExpire(n model.Notification) {
	d.logger.Debug("notification expired", "id", n.ID)
	if d.server == nil {
		return
	}
	if err := d.server.EmitExpired(n.ID, n.Message); err != nil && !errors.Is(err, dbus.ErrNotConnected) {
		d.logger.Debug("failed to emit Expired", "error", err)
	}
}
