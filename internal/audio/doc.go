// Package audio plays a short chime when a notification is shown.
// It uses the beep library to play WAV, OGG, and MP3 files, and falls
// back to a synthesized two-tone chime when no file is configured.
package audio
