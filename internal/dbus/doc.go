// Package dbus exposes the overlay on the session bus as
// io.github.jmylchreest.Hud, provides a client for it, and can passively
// observe org.freedesktop.Notifications traffic to mirror desktop
// notifications onto the overlay.
package dbus
