package display

import (
	"log/slog"
	"unsafe"

	layershell "github.com/diamondburned/gotk4-layer-shell/pkg/gtk4layershell"
	"github.com/diamondburned/gotk4/pkg/core/glib"
	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/jmylchreest/hud/internal/config"
)

// edges lists which screen edges a position anchors to.
type edges struct {
	top, bottom, left, right bool
}

// anchorsFor maps a configured position to layer-shell anchors. Unanchored
// axes are centered by the compositor.
func anchorsFor(position config.Position) edges {
	switch position {
	case config.PositionTopLeft:
		return edges{top: true, left: true}
	case config.PositionTopRight:
		return edges{top: true, right: true}
	case config.PositionTopCenter:
		return edges{top: true}
	case config.PositionBottomLeft:
		return edges{bottom: true, left: true}
	case config.PositionBottomRight:
		return edges{bottom: true, right: true}
	case config.PositionBottomCenter:
		return edges{bottom: true}
	default:
		return edges{}
	}
}

// applyPlacement sets anchors and margins on a layer-shell window.
func applyPlacement(window *gtk.Window, cfg config.DisplayConfig) {
	e := anchorsFor(config.Position(cfg.Position))

	layershell.SetAnchor(window, layershell.LayerShellEdgeTop, e.top)
	layershell.SetAnchor(window, layershell.LayerShellEdgeBottom, e.bottom)
	layershell.SetAnchor(window, layershell.LayerShellEdgeLeft, e.left)
	layershell.SetAnchor(window, layershell.LayerShellEdgeRight, e.right)

	margin := func(edge layershell.LayerShellEdge, anchored bool, offset int) {
		if !anchored {
			offset = 0
		}
		layershell.SetMargin(window, edge, offset)
	}
	margin(layershell.LayerShellEdgeTop, e.top, cfg.OffsetY)
	margin(layershell.LayerShellEdgeBottom, e.bottom, cfg.OffsetY)
	margin(layershell.LayerShellEdgeLeft, e.left, cfg.OffsetX)
	margin(layershell.LayerShellEdgeRight, e.right, cfg.OffsetX)
}

// noMonitor means the compositor picks the output.
const noMonitor = -1

// resolveMonitor maps a configured monitor number (1-indexed, 0 = any) onto
// an index into the available monitors. A number past the end falls back
// to the first monitor.
func resolveMonitor(monitorNum int, available uint) int {
	if monitorNum <= 0 || available == 0 {
		return noMonitor
	}
	if uint(monitorNum) > available {
		return 0
	}
	return monitorNum - 1
}

// monitorCount returns how many monitors display currently has.
func monitorCount(display *gdk.Display) uint {
	if display == nil {
		return 0
	}
	monitors := display.Monitors()
	if monitors == nil {
		return 0
	}
	return monitors.NItems()
}

// selectMonitor returns the configured monitor and its resolved index, or
// nil and noMonitor to let the compositor choose.
func selectMonitor(display *gdk.Display, monitorNum int, logger *slog.Logger) (*gdk.Monitor, int) {
	if monitorNum == 0 {
		return nil, noMonitor
	}

	available := monitorCount(display)
	index := resolveMonitor(monitorNum, available)
	switch {
	case index == noMonitor:
		logger.Warn("no monitors available")
		return nil, noMonitor
	case index != monitorNum-1:
		logger.Warn("configured monitor not available, using first",
			"configured", monitorNum,
			"available", available,
		)
	}

	return wrapMonitor(display.Monitors().Item(uint(index))), index
}

// wrapMonitor wraps a glib.Object as a gdk.Monitor.
// gotk4 does not export its own wrapper for list items.
func wrapMonitor(obj *glib.Object) *gdk.Monitor {
	if obj == nil {
		return nil
	}
	type monitor struct {
		_ [0]func()
		*glib.Object
	}
	m := &monitor{Object: obj}
	return (*gdk.Monitor)(unsafe.Pointer(m))
}
