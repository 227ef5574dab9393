package daemon

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWatcher(t *testing.T) *FileWatcher {
	t.Helper()
	w, err := NewFileWatcher(nil)
	require.NoError(t, err)
	w.SetDebounce(20 * time.Millisecond)
	require.NoError(t, w.Start(context.Background()))
	t.Cleanup(func() { _ = w.Stop() })
	return w
}

func TestFileWatcher_DetectsWrite(t *testing.T) {
	w := newTestWatcher(t)
	path := filepath.Join(t.TempDir(), "hudd.toml")
	require.NoError(t, os.WriteFile(path, []byte("a"), 0644))

	var calls atomic.Int32
	require.NoError(t, w.Watch(path, func() { calls.Add(1) }))

	require.NoError(t, os.WriteFile(path, []byte("b"), 0644))
	assert.Eventually(t, func() bool { return calls.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestFileWatcher_DetectsAtomicSave(t *testing.T) {
	w := newTestWatcher(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "hudd.toml")

	var calls atomic.Int32
	require.NoError(t, w.Watch(path, func() { calls.Add(1) }))

	tmp := path + ".tmp"
	require.NoError(t, os.WriteFile(tmp, []byte("x"), 0644))
	require.NoError(t, os.Rename(tmp, path))

	assert.Eventually(t, func() bool { return calls.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestFileWatcher_DebouncesBursts(t *testing.T) {
	w := newTestWatcher(t)
	w.SetDebounce(150 * time.Millisecond)
	path := filepath.Join(t.TempDir(), "theme.css")

	var calls atomic.Int32
	require.NoError(t, w.Watch(path, func() { calls.Add(1) }))

	for i := range 5 {
		require.NoError(t, os.WriteFile(path, []byte{byte('a' + i)}, 0644))
		time.Sleep(10 * time.Millisecond)
	}

	assert.Eventually(t, func() bool { return calls.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load(), "a burst of writes fires once")
}

func TestFileWatcher_IgnoresSiblings(t *testing.T) {
	w := newTestWatcher(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "hudd.toml")

	var calls atomic.Int32
	require.NoError(t, w.Watch(path, func() { calls.Add(1) }))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.toml"), []byte("x"), 0644))
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, int32(0), calls.Load())
}

func TestFileWatcher_Unwatch(t *testing.T) {
	w := newTestWatcher(t)
	path := filepath.Join(t.TempDir(), "chime.wav")

	var calls atomic.Int32
	require.NoError(t, w.Watch(path, func() { calls.Add(1) }))
	w.Unwatch(path)
	w.Unwatch(path)

	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, int32(0), calls.Load())
}

func TestFileWatcher_WatchMissingDir(t *testing.T) {
	w := newTestWatcher(t)
	err := w.Watch(filepath.Join(t.TempDir(), "missing", "hudd.toml"), func() {})
	assert.Error(t, err)
}

func TestFileWatcher_StopIdempotent(t *testing.T) {
	w, err := NewFileWatcher(nil)
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	require.NoError(t, w.Start(context.Background()))

	assert.NoError(t, w.Stop())
	assert.NoError(t, w.Stop())
}
