package geokit

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherDetectsNewFiles(t *testing.T) {
	dir := t.TempDir()
	d := New()

	w, err := d.NewWatcher(dir)
	require.NoError(t, err)
	defer w.Close()

	// Give the watcher goroutine a moment to start receiving.
	time.Sleep(100 * time.Millisecond)

	path := filepath.Join(dir, "parks.geojson")
	require.NoError(t, os.WriteFile(path, []byte(`{"type":"FeatureCollection","features":[]}`), 0o644))

	deadline := time.After(5 * time.Second)
	for {
		select {
		case evt := <-w.Events():
			// Create and write may both fire; wait for the complete file.
			if evt.Path != path || !evt.Outcome.Valid {
				continue
			}
			assert.Equal(t, GeoJSON, evt.Outcome.Format)
			assert.NotEmpty(t, evt.Fingerprint)
			return
		case err := <-w.Errors():
			t.Fatalf("watcher error: %v", err)
		case <-deadline:
			t.Fatal("timed out waiting for detection event")
		}
	}
}

func TestWatcherPatternFilters(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.WatchPattern = "*.gpx"
	d := New(WithConfig(cfg))

	w, err := d.NewWatcher(dir)
	require.NoError(t, err)
	defer w.Close()

	time.Sleep(100 * time.Millisecond)

	ignored := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(ignored, []byte("plain text"), 0o644))
	matched := filepath.Join(dir, "track.gpx")
	require.NoError(t, os.WriteFile(matched, []byte(`<gpx version="1.1"></gpx>`), 0o644))

	deadline := time.After(5 * time.Second)
	for {
		select {
		case evt := <-w.Events():
			require.Equal(t, matched, evt.Path, "filtered file must not produce events")
			if evt.Outcome.Valid {
				assert.Equal(t, GPX, evt.Outcome.Format)
				return
			}
		case err := <-w.Errors():
			t.Fatalf("watcher error: %v", err)
		case <-deadline:
			t.Fatal("timed out waiting for detection event")
		}
	}
}

func TestWatcherInvalidPattern(t *testing.T) {
	cfg := DefaultConfig()
	cfg.WatchPattern = "[bad"
	d := New(WithConfig(cfg))

	_, err := d.NewWatcher(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "watch pattern")
}

func TestWatcherCloseIsIdempotent(t *testing.T) {
	d := New()
	w, err := d.NewWatcher(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
}
