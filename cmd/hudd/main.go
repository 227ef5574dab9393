// Package main is the entry point for the hudd overlay daemon.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/diamondburned/gotk4-adwaita/pkg/adw"
	"github.com/diamondburned/gotk4/pkg/glib/v2"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/jmylchreest/hud/internal/audio"
	"github.com/jmylchreest/hud/internal/config"
	"github.com/jmylchreest/hud/internal/daemon"
	"github.com/jmylchreest/hud/internal/display"
	"github.com/jmylchreest/hud/internal/render"
	"github.com/jmylchreest/hud/internal/theme"
)

const (
	appID   = "io.github.jmylchreest.hudd"
	appName = "hudd"
)

var (
	// Build-time variables
	version = "dev"
)

func main() {
	configPath := flag.String("config", "", "Path to config file (default: $XDG_CONFIG_HOME/hud/hudd.toml)")
	headless := flag.Bool("headless", false, "Run without a window; notifications are only served over D-Bus")
	verbose := flag.Bool("verbose", false, "Enable debug logging")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(appName, "version", version)
		os.Exit(0)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if *headless {
		runHeadless(cfg, *configPath, logger)
		return
	}

	runOverlay(cfg, *configPath, logger)
}

// runHeadless runs the daemon against an in-memory surface. Useful on
// machines without a compositor and for scripting against the D-Bus API.
func runHeadless(cfg *config.Config, configPath string, logger *slog.Logger) {
	logger.Info("starting hudd in headless mode", "version", version)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	d, err := daemon.New(daemon.Options{
		Config:     cfg,
		ConfigPath: configPath,
		Surface:    render.NewMemorySurface(),
		Chime:      audio.NewChime(cfg.Audio, logger.With("component", "audio")),
		Logger:     logger,
	})
	if err != nil {
		logger.Error("failed to create daemon", "error", err)
		os.Exit(1)
	}
	if err := d.Start(ctx); err != nil {
		logger.Error("failed to start daemon", "error", err)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("received signal, shutting down")
	d.Stop()
	logger.Info("hudd stopped")
}

// runOverlay runs hudd with the layer-shell overlay window.
func runOverlay(cfg *config.Config, configPath string, logger *slog.Logger) {
	logger.Info("starting hudd", "version", version)

	app := adw.NewApplication(appID, 0)

	// Shared state between GTK main loop and signal handlers
	var (
		hud         *daemon.Daemon
		overlay     *display.Overlay
		themeLoader *theme.Loader
		themePath   string
		running     atomic.Bool
	)

	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Info("received signal, shutting down", "signal", sig)
		cancel()

		glib.IdleAdd(func() {
			app.Quit()
		})
	}()

	// watchTheme follows the file backing the loaded theme. Bundled themes
	// have no file.
	watchTheme := func() {
		path := themeLoader.Path()
		if path == themePath {
			return
		}
		if themePath != "" {
			hud.UnwatchFile(themePath)
		}
		themePath = path
		if path == "" {
			return
		}
		err := hud.WatchFile(path, func() {
			glib.IdleAdd(func() {
				if err := themeLoader.Reload(); err != nil {
					logger.Warn("failed to reload theme", "error", err)
					hud.Status().NotifyThemeError(err)
					return
				}
				hud.Status().NotifyThemeReloaded(themeLoader.CurrentTheme())
			})
		})
		if err != nil {
			logger.Warn("failed to watch theme file", "path", path, "error", err)
		}
	}

	app.ConnectActivate(func() {
		if running.Load() {
			logger.Warn("application already running")
			return
		}
		running.Store(true)

		themeLoader = theme.NewLoader(logger.With("component", "theme"))
		themeLoader.SetDisplayConfig(cfg.Display)
		if err := themeLoader.LoadTheme(cfg.Theme.Name); err != nil {
			logger.Warn("failed to load theme, using default", "error", err)
		}
		themeLoader.Apply(nil)

		overlay = display.NewOverlay(&app.Application, cfg.Display,
			config.ColorScheme(cfg.Theme.ColorScheme), logger.With("component", "display"))

		var err error
		hud, err = daemon.New(daemon.Options{
			Config:     cfg,
			ConfigPath: configPath,
			Surface:    overlay,
			Chime:      audio.NewChime(cfg.Audio, logger.With("component", "audio")),
			Logger:     logger,
		})
		if err != nil {
			logger.Error("failed to create daemon", "error", err)
			app.Quit()
			return
		}

		overlay.OnClick(hud.Service().ClearAll)

		hud.OnConfigChange(func(newConfig *config.Config) {
			glib.IdleAdd(func() {
				overlay.Configure(newConfig.Display, config.ColorScheme(newConfig.Theme.ColorScheme))
				themeLoader.SetDisplayConfig(newConfig.Display)

				if newConfig.Theme.Name != themeLoader.CurrentTheme() {
					if err := themeLoader.LoadTheme(newConfig.Theme.Name); err != nil {
						logger.Warn("failed to load new theme", "theme", newConfig.Theme.Name, "error", err)
						hud.Status().NotifyThemeError(err)
					} else {
						hud.Status().NotifyThemeReloaded(newConfig.Theme.Name)
					}
					watchTheme()
				}
			})
		})

		if err := hud.Start(ctx); err != nil {
			logger.Error("failed to start daemon", "error", err)
			app.Quit()
			return
		}
		watchTheme()

		// GTK apps quit when all windows are closed and the overlay window
		// only exists while something is on screen.
		keepAliveWindow := gtk.NewWindow()
		keepAliveWindow.SetApplication(&app.Application)
		keepAliveWindow.SetDefaultSize(1, 1)
		keepAliveWindow.SetDecorated(false)
		keepAliveWindow.SetVisible(false)
	})

	app.ConnectShutdown(func() {
		logger.Info("application shutting down")
		if hud != nil {
			hud.Stop()
		}
		if overlay != nil {
			overlay.Destroy()
		}
		running.Store(false)
	})

	status := app.Run(os.Args[:1])

	cancel()

	if status != 0 {
		logger.Error("application exited with error", "status", status)
		os.Exit(status)
	}

	logger.Info("hudd stopped")
}
