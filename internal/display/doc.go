// Package display implements the GTK4 layer-shell overlay window that shows
// the active notifications. Overlay satisfies render.Surface and marshals
// every widget operation onto the GTK main loop.
package display
