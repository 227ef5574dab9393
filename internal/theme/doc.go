// Package theme handles CSS theming for the hudd overlay.
// Themes are resolved from ~/.config/hud/themes/ first and then from the
// bundled set, and are combined with the CSS derived from the [display]
// config section (font size, background opacity).
package theme
