// Package model defines the core data structures for hud: the queued
// notification and the color it is rendered with.
package model
