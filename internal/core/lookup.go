package core

import (
	"strconv"
	"strings"

	"github.com/jmylchreest/hud/internal/model"
)

// LookupByID finds a notification by its ID. A unique prefix of at least
// six characters also matches. Returns nil if not found or ambiguous.
func LookupByID(notifications []model.Notification, id string) *model.Notification {
	id = strings.ToUpper(strings.TrimSpace(id))
	if id == "" {
		return nil
	}

	for i := range notifications {
		if notifications[i].ID == id {
			return &notifications[i]
		}
	}

	if len(id) < 6 {
		return nil
	}
	var match *model.Notification
	for i := range notifications {
		if strings.HasPrefix(notifications[i].ID, id) {
			if match != nil {
				return nil
			}
			match = &notifications[i]
		}
	}
	return match
}

// LookupByIndex finds a notification by its index (1-based, oldest first).
// Returns nil if index is out of bounds.
func LookupByIndex(notifications []model.Notification, index int) *model.Notification {
	idx := index - 1
	if idx < 0 || idx >= len(notifications) {
		return nil
	}
	return &notifications[idx]
}

// Lookup resolves a 1-based index or an ID.
func Lookup(notifications []model.Notification, ref string) *model.Notification {
	if index, err := strconv.Atoi(strings.TrimSpace(ref)); err == nil {
		return LookupByIndex(notifications, index)
	}
	return LookupByID(notifications, ref)
}

// Search finds notifications whose message contains term.
// Case-insensitive substring match.
func Search(notifications []model.Notification, term string) []model.Notification {
	if term == "" {
		return notifications
	}

	term = strings.ToLower(term)
	var result []model.Notification
	for _, n := range notifications {
		if strings.Contains(strings.ToLower(n.Message), term) {
			result = append(result, n)
		}
	}
	return result
}
