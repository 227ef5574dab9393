package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/hud/internal/model"
)

func testNotification(msg string, d time.Duration) model.Notification {
	return model.NewNotification(msg, model.White, d)
}

func messages(ns []model.Notification) []string {
	out := make([]string, len(ns))
	for i, n := range ns {
		out[i] = n.Message
	}
	return out
}

func TestNewStore(t *testing.T) {
	s := NewStore()
	assert.NotNil(t, s)
	assert.Equal(t, 0, s.Count())
	assert.Empty(t, s.Snapshot())
}

func TestStore_AddKeepsInsertionOrder(t *testing.T) {
	s := NewStore()

	s.Add(testNotification("A", time.Second))
	s.Add(testNotification("B", 0))
	s.Add(testNotification("C", time.Second))

	assert.Equal(t, 3, s.Count())
	assert.Equal(t, []string{"A", "B", "C"}, messages(s.Snapshot()))
}

func TestStore_AddAllowsDuplicates(t *testing.T) {
	s := NewStore()

	n := testNotification("same", time.Second)
	s.Add(n)
	s.Add(n)

	assert.Equal(t, 2, s.Count())
}

func TestStore_RemoveOldest(t *testing.T) {
	s := NewStore()
	s.Add(testNotification("A", time.Second))
	s.Add(testNotification("B", time.Second))
	s.Add(testNotification("C", time.Second))

	removed, ok := s.RemoveOldest()
	require.True(t, ok)
	assert.Equal(t, "A", removed.Message)
	assert.Equal(t, []string{"B", "C"}, messages(s.Snapshot()))
}

func TestStore_RemoveNewest(t *testing.T) {
	s := NewStore()
	s.Add(testNotification("A", time.Second))
	s.Add(testNotification("B", time.Second))
	s.Add(testNotification("C", time.Second))

	removed, ok := s.RemoveNewest()
	require.True(t, ok)
	assert.Equal(t, "C", removed.Message)
	assert.Equal(t, []string{"A", "B"}, messages(s.Snapshot()))
}

func TestStore_RemoveOnEmptyIsNoop(t *testing.T) {
	s := NewStore()

	_, ok := s.RemoveOldest()
	assert.False(t, ok)
	_, ok = s.RemoveNewest()
	assert.False(t, ok)
	assert.Equal(t, 0, s.Count())
}

func TestStore_Clear(t *testing.T) {
	s := NewStore()
	s.Add(testNotification("A", time.Second))
	s.Add(testNotification("B", 0))

	assert.Equal(t, 2, s.Clear())
	assert.Equal(t, 0, s.Count())
	assert.Equal(t, 0, s.Clear(), "clearing an empty store is a no-op")
}

func TestStore_PruneDecrementsOnlyTimed(t *testing.T) {
	s := NewStore()
	s.Add(testNotification("timed", time.Second))
	s.Add(testNotification("pinned", 0))

	expired := s.Prune(100 * time.Millisecond)
	assert.Empty(t, expired)

	snap := s.Snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, 900*time.Millisecond, snap[0].Remaining)
	assert.Equal(t, time.Duration(0), snap[1].Remaining, "permanent items are not decremented")
}

func TestStore_PruneRemovesAdjacentExpired(t *testing.T) {
	s := NewStore()
	s.Add(testNotification("A", 100*time.Millisecond))
	s.Add(testNotification("B", 50*time.Millisecond))
	s.Add(testNotification("C", 0))
	s.Add(testNotification("D", 100*time.Millisecond))
	s.Add(testNotification("E", time.Second))

	expired := s.Prune(100 * time.Millisecond)

	assert.Equal(t, []string{"A", "B", "D"}, messages(expired))
	assert.Equal(t, []string{"C", "E"}, messages(s.Snapshot()))
	for _, n := range expired {
		assert.True(t, n.Expired(), "%s returned as expired", n.Message)
	}
	for _, n := range s.Snapshot() {
		assert.False(t, n.Expired(), "%s kept", n.Message)
	}
}

func TestStore_PruneExpiresOnExactTick(t *testing.T) {
	tests := []struct {
		name     string
		duration time.Duration
		ticks    int
	}{
		{"exact multiple", 5 * time.Second, 50},
		{"rounds up", 150 * time.Millisecond, 2},
		{"shorter than one tick", time.Millisecond, 1},
		{"one tick", 100 * time.Millisecond, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore()
			s.Add(testNotification("x", tt.duration))

			for i := 1; i < tt.ticks; i++ {
				require.Empty(t, s.Prune(100*time.Millisecond), "expired early at tick %d", i)
			}
			assert.Len(t, s.Prune(100*time.Millisecond), 1)
			assert.Equal(t, 0, s.Count())
		})
	}
}

func TestStore_PruneNeverRemovesPermanent(t *testing.T) {
	s := NewStore()
	s.Add(testNotification("pinned", 0))
	s.Add(testNotification("negative", -time.Second))

	for range 1000 {
		s.Prune(100 * time.Millisecond)
	}

	assert.Equal(t, 2, s.Count())
}

func TestStore_SnapshotIsCopy(t *testing.T) {
	s := NewStore()
	s.Add(testNotification("A", time.Second))

	snap := s.Snapshot()
	snap[0].Message = "mutated"

	assert.Equal(t, "A", s.Snapshot()[0].Message)
}

func TestStore_Get(t *testing.T) {
	s := NewStore()
	a := testNotification("A", time.Second)
	b := testNotification("B", 0)
	s.Add(a)
	s.Add(b)

	got, ok := s.Get(b.ID)
	require.True(t, ok)
	assert.Equal(t, "B", got.Message)
	assert.True(t, got.Permanent)

	_, ok = s.Get("missing")
	assert.False(t, ok)

	s.RemoveNewest()
	_, ok = s.Get(b.ID)
	assert.False(t, ok, "removed notifications are gone")
}
