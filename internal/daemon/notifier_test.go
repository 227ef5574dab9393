package daemon

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jmylchreest/hud/internal/model"
)

type sent struct {
	message  string
	color    model.Color
	duration time.Duration
}

// recordingPoster captures overlay sends.
type recordingPoster struct {
	mu       sync.Mutex
	sent     []sent
	duration time.Duration
}

func (p *recordingPoster) Send(message string, color model.Color, duration time.Duration) model.Notification {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent = append(p.sent, sent{message, color, duration})
	return model.NewNotification(message, color, duration)
}

func (p *recordingPoster) DefaultDuration() time.Duration {
	return p.duration
}

func (p *recordingPoster) all() []sent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]sent(nil), p.sent...)
}

func TestStatusLevel_Color(t *testing.T) {
	assert.Equal(t, model.Cyan, StatusInfo.Color())
	assert.Equal(t, model.Yellow, StatusWarning.Color())
	assert.Equal(t, model.Red, StatusError.Color())
}

func TestStatusNotifier_Posts(t *testing.T) {
	poster := &recordingPoster{}
	n := NewStatusNotifier(poster, nil)

	n.NotifyConfigError(errors.New("bad position"))

	got := poster.all()
	if assert.Len(t, got, 1) {
		assert.Equal(t, "hudd: configuration error: bad position", got[0].message)
		assert.Equal(t, model.Red, got[0].color)
		assert.Equal(t, statusDuration, got[0].duration)
	}
}

func TestStatusNotifier_RateLimitsPerKey(t *testing.T) {
	poster := &recordingPoster{}
	n := NewStatusNotifier(poster, nil)

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	n.now = func() time.Time { return now }

	assert.True(t, n.Notify("reload", "one", StatusInfo))
	assert.False(t, n.Notify("reload", "two", StatusInfo))
	assert.True(t, n.Notify("other", "three", StatusInfo), "keys are limited independently")

	now = now.Add(statusMinInterval)
	assert.True(t, n.Notify("reload", "four", StatusInfo))

	assert.Len(t, poster.all(), 3)
}

func TestStatusNotifier_Disabled(t *testing.T) {
	poster := &recordingPoster{}
	n := NewStatusNotifier(poster, nil)
	n.SetEnabled(false)

	n.NotifyConfigReloaded()
	n.NotifyThemeReloaded("minimal")
	assert.Empty(t, poster.all())

	n.SetEnabled(true)
	n.NotifyThemeReloaded("minimal")
	assert.Equal(t, "hudd: theme 'minimal' loaded", poster.all()[0].message)
}

func TestStatusNotifier_NilPoster(t *testing.T) {
	n := NewStatusNotifier(nil, nil)
	assert.False(t, n.Notify("k", "m", StatusInfo))
}
