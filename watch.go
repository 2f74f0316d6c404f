package geokit

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/gobwas/glob"
)

// Event is emitted by a Watcher for every file it detects.
type Event struct {
	// Path is the file that triggered detection.
	Path string

	// Fingerprint is the header fingerprint of the file at detection
	// time, for correlating duplicate writes of identical content.
	Fingerprint string

	// Outcome is the detection result.
	Outcome Outcome
}

// Watcher runs detection on files created or written under a directory
// and forwards the outcomes on a channel. It supplements the synchronous
// core for ingestion pipelines.
type Watcher struct {
	detector  *Detector
	watcher   *fsnotify.Watcher
	pattern   glob.Glob
	events    chan Event
	errors    chan error
	done      chan struct{}
	closeOnce sync.Once
}

// NewWatcher watches dir and detects files whose lowercased base name
// matches the configured watch pattern.
func (d *Detector) NewWatcher(dir string) (*Watcher, error) {
	pattern, err := glob.Compile(strings.ToLower(d.cfg.WatchPattern))
	if err != nil {
		return nil, fmt.Errorf("invalid watch pattern %q: %w", d.cfg.WatchPattern, err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	w := &Watcher{
		detector: d,
		watcher:  fsw,
		pattern:  pattern,
		events:   make(chan Event),
		errors:   make(chan error),
		done:     make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// loop forwards fsnotify events through detection until Close.
func (w *Watcher) loop() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				close(w.events)
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if !w.pattern.Match(strings.ToLower(filepath.Base(event.Name))) {
				continue
			}
			w.emit(event.Name)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				close(w.errors)
				return
			}
			select {
			case w.errors <- err:
			case <-w.done:
				return
			}
		}
	}
}

func (w *Watcher) emit(path string) {
	fingerprint, err := FileFingerprint(path, w.detector.cfg.HeaderBytes)
	if err != nil {
		// The file may have been removed or still be mid-write.
		w.detector.logger.Debug("skipping unreadable watched file", "path", path, "err", err)
		return
	}
	out := w.detector.Detect(path)
	select {
	case w.events <- Event{Path: path, Fingerprint: fingerprint, Outcome: out}:
	case <-w.done:
	}
}

// Events returns the detection event channel.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Errors returns the underlying watcher error channel.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// Close stops watching and releases the underlying watcher.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		err = w.watcher.Close()
	})
	return err
}
