package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/hud/internal/model"
)

func TestSurface_CreateAndShow(t *testing.T) {
	s := NewSurface()
	assert.False(t, s.Ready())

	require.NoError(t, s.Create())
	assert.True(t, s.Ready())

	require.NoError(t, s.Show("hello\nworld", model.Red))
	text, color := s.Frame()
	assert.Equal(t, "hello\nworld", text)
	assert.Equal(t, model.Red, color)
}

func TestSurface_ChangesCoalesce(t *testing.T) {
	s := NewSurface()

	require.NoError(t, s.Show("one", model.White))
	require.NoError(t, s.Show("two", model.White))
	require.NoError(t, s.Refresh())

	select {
	case <-s.Changes():
	default:
		t.Fatal("expected a pending change")
	}

	select {
	case <-s.Changes():
		t.Fatal("updates should coalesce into one signal")
	default:
	}

	text, _ := s.Frame()
	assert.Equal(t, "two", text)
}
