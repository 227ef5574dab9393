// Package store holds the ordered set of notifications currently on the overlay.
package store

import (
	"sync"
	"time"

	"github.com/jmylchreest/hud/internal/model"
)

// Store is the insertion-ordered collection of active notifications.
// Index 0 is the oldest entry, the last index is the newest.
// A single mutex guards every operation, including Prune.
type Store struct {
	mu            sync.RWMutex
	notifications []model.Notification
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		notifications: make([]model.Notification, 0),
	}
}

// Add appends a notification as the newest entry.
func (s *Store) Add(n model.Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notifications = append(s.notifications, n)
}

// RemoveOldest removes the first entry. It is a no-op on an empty store.
func (s *Store) RemoveOldest() (model.Notification, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.notifications) == 0 {
		return model.Notification{}, false
	}

	removed := s.notifications[0]
	s.notifications = append(s.notifications[:0:0], s.notifications[1:]...)
	return removed, true
}

// RemoveNewest removes the last entry. It is a no-op on an empty store.
func (s *Store) RemoveNewest() (model.Notification, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	last := len(s.notifications) - 1
	if last < 0 {
		return model.Notification{}, false
	}

	removed := s.notifications[last]
	s.notifications = s.notifications[:last]
	return removed, true
}

// Clear removes every notification and returns how many were removed.
func (s *Store) Clear() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := len(s.notifications)
	s.notifications = make([]model.Notification, 0)
	return count
}

// Prune advances time by dt for every non-permanent notification and removes
// those whose remaining time dropped to zero or below. It returns the expired
// notifications in insertion order; an empty result means nothing changed.
func (s *Store) Prune(dt time.Duration) []model.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	var expired []model.Notification
	kept := s.notifications[:0]
	for _, n := range s.notifications {
		if !n.Permanent {
			n.Remaining -= dt
		}
		if n.Expired() {
			expired = append(expired, n)
			continue
		}
		kept = append(kept, n)
	}

	// Zero the tail so removed items are not retained by the backing array.
	for i := len(kept); i < len(s.notifications); i++ {
		s.notifications[i] = model.Notification{}
	}
	s.notifications = kept
	return expired
}

// Snapshot returns a copy of the notifications in insertion order.
func (s *Store) Snapshot() []model.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Notification, len(s.notifications))
	copy(out, s.notifications)
	return out
}

// Get returns the notification with the given ID.
func (s *Store) Get(id string) (model.Notification, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, n := range s.notifications {
		if n.ID == id {
			return n, true
		}
	}
	return model.Notification{}, false
}

// Count returns the number of notifications in the store.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.notifications)
}
