package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/hud/internal/model"
	"github.com/jmylchreest/hud/internal/render"
	"github.com/jmylchreest/hud/internal/store"
)

// countingRenderer records calls and can be made to fail.
type countingRenderer struct {
	mu        sync.Mutex
	renders   int
	refreshes int
	err       error
}

func (r *countingRenderer) Render(render.Source) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.renders++
	return r.err
}

func (r *countingRenderer) Refresh(render.Source) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.refreshes++
	return r.err
}

func (r *countingRenderer) counts() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.renders, r.refreshes
}

func TestNew_DefaultInterval(t *testing.T) {
	s := New(store.NewStore(), &countingRenderer{}, 0, nil)
	assert.Equal(t, DefaultInterval, s.Interval())

	s = New(store.NewStore(), &countingRenderer{}, 250*time.Millisecond, nil)
	assert.Equal(t, 250*time.Millisecond, s.Interval())
}

func TestAdvance_RefreshesEveryTick(t *testing.T) {
	st := store.NewStore()
	st.Add(model.NewNotification("pinned", model.White, 0))
	r := &countingRenderer{}
	s := New(st, r, DefaultInterval, nil)

	for range 5 {
		s.Advance(DefaultInterval)
	}

	renders, refreshes := r.counts()
	assert.Equal(t, 0, renders, "no expiry means no render")
	assert.Equal(t, 5, refreshes)
	assert.Equal(t, uint64(5), s.Ticks())
}

func TestAdvance_RendersOnExpiry(t *testing.T) {
	st := store.NewStore()
	st.Add(model.NewNotification("short", model.Red, 150*time.Millisecond))
	r := &countingRenderer{}
	s := New(st, r, DefaultInterval, nil)

	var got []model.Notification
	s.SetExpireCallback(func(expired []model.Notification) {
		got = append(got, expired...)
	})

	assert.Empty(t, s.Advance(DefaultInterval))
	expired := s.Advance(DefaultInterval)
	require.Len(t, expired, 1)
	assert.Equal(t, "short", expired[0].Message)

	renders, refreshes := r.counts()
	assert.Equal(t, 1, renders)
	assert.Equal(t, 2, refreshes)
	require.Len(t, got, 1)
	assert.Equal(t, "short", got[0].Message)
	assert.Equal(t, 0, st.Count())
}

func TestAdvance_ErrorsDoNotStopTicking(t *testing.T) {
	st := store.NewStore()
	st.Add(model.NewNotification("x", model.White, DefaultInterval))
	r := &countingRenderer{err: errors.New("no display")}
	s := New(st, r, DefaultInterval, nil)

	expired := s.Advance(DefaultInterval)
	assert.Len(t, expired, 1)
	s.Advance(DefaultInterval)

	renders, refreshes := r.counts()
	assert.Equal(t, 1, renders)
	assert.Equal(t, 2, refreshes)
}

func TestAdvance_WithRealRenderer(t *testing.T) {
	st := store.NewStore()
	surface := render.NewMemorySurface()
	renderer := render.NewRenderer(surface, nil)
	s := New(st, renderer, DefaultInterval, nil)

	st.Add(model.NewNotification("A", model.Red, 200*time.Millisecond))
	st.Add(model.NewNotification("B", model.Blue, 0))
	require.NoError(t, renderer.Render(st))
	assert.Equal(t, "A\nB", surface.Text())

	s.Advance(DefaultInterval)
	assert.Equal(t, "A\nB", surface.Text())
	s.Advance(DefaultInterval)
	assert.Equal(t, "B", surface.Text())
	assert.Equal(t, model.Blue, surface.Color())
	assert.Equal(t, 2, surface.Refreshes())
}

func TestStartStop(t *testing.T) {
	st := store.NewStore()
	st.Add(model.NewNotification("x", model.White, 10*time.Millisecond))
	r := &countingRenderer{}
	s := New(st, r, 5*time.Millisecond, nil)

	s.Start(context.Background())
	s.Start(context.Background())
	assert.True(t, s.Running())

	require.Eventually(t, func() bool {
		return st.Count() == 0
	}, time.Second, 5*time.Millisecond)

	s.Stop()
	s.Stop()
	assert.False(t, s.Running())

	_, refreshes := r.counts()
	time.Sleep(20 * time.Millisecond)
	_, after := r.counts()
	assert.Equal(t, refreshes, after, "no ticks after Stop")
}

func TestStart_ContextCancel(t *testing.T) {
	r := &countingRenderer{}
	s := New(store.NewStore(), r, 5*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)
	cancel()

	require.Eventually(t, func() bool {
		return !s.Running()
	}, time.Second, 5*time.Millisecond)

	// Restart after cancellation works.
	s.Start(context.Background())
	assert.True(t, s.Running())
	s.Stop()
}
