package model

import (
	"time"

	"github.com/oklog/ulid/v2"
)

// DefaultDuration is the lifetime of a notification sent without one.
const DefaultDuration = 5 * time.Second

// Notification is one queued message on the overlay.
// Message and Color never change after creation. Remaining is only
// decremented by the store's prune pass and only for non-permanent items.
type Notification struct {
	ID        string        `json:"id" yaml:"id"`
	Message   string        `json:"message" yaml:"message"`
	Color     Color         `json:"color" yaml:"color"`
	Remaining time.Duration `json:"-" yaml:"-"`
	Permanent bool          `json:"permanent" yaml:"permanent"`
	CreatedAt time.Time     `json:"created_at" yaml:"created_at"`
}

// NewNotification creates a notification with a fresh ULID.
// A duration of zero or less makes the notification permanent.
func NewNotification(message string, color Color, duration time.Duration) Notification {
	now := time.Now()
	return Notification{
		ID:        ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy()).String(),
		Message:   message,
		Color:     color,
		Remaining: duration,
		Permanent: duration <= 0,
		CreatedAt: now,
	}
}

// Expired reports whether a timed notification has run out of time.
// Permanent notifications never expire.
func (n Notification) Expired() bool {
	return !n.Permanent && n.Remaining <= 0
}

// ExpiresAt returns the wall-clock time the notification is expected to
// expire, measured from now. Zero for permanent notifications.
func (n Notification) ExpiresAt(now time.Time) time.Time {
	if n.Permanent {
		return time.Time{}
	}
	return now.Add(n.Remaining)
}
