// Package daemon wires the overlay service to the rest of hudd: the D-Bus
// server and its signals, the desktop notification bridge, the chime,
// status messages and hot reload of the config, theme and sound files.
package daemon
