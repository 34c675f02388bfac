package codebase

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"
)

type EventKind int

const (
	FileCreated EventKind = iota
	FileModified
	FileDeleted
)

func (k EventKind) String() string {
	switch k {
	case FileCreated:
		return "created"
	case FileModified:
		return "modified"
	default:
		return "deleted"
	}
}

// Event describes one change the watcher applied to the codebase.
type Event struct {
	Kind EventKind
	Path string
	File *FileInfo
}

type FileWatcher struct {
	codebase     *Codebase
	stopCh       chan struct{}
	done         chan struct{}
	once         sync.Once
	started      bool
	pollInterval time.Duration
	modTimes     map[string]time.Time
	onEvent      func(Event)
}

// NewFileWatcher returns a watcher polling at the configured interval.
// onEvent may be nil.
func NewFileWatcher(c *Codebase, onEvent func(Event)) *FileWatcher {
	return &FileWatcher{
		codebase:     c,
		stopCh:       make(chan struct{}),
		done:         make(chan struct{}),
		pollInterval: c.Config().Watch.Interval.Duration,
		modTimes:     make(map[string]time.Time),
		onEvent:      onEvent,
	}
}

// Start records the current files without reporting them and polls in
// the background until Stop is called or ctx is done.
func (w *FileWatcher) Start(ctx context.Context) {
	w.snapshot()
	w.started = true
	go w.run(ctx)
}

// Stop ends polling and waits for the running scan to finish.
func (w *FileWatcher) Stop() {
	w.once.Do(func() { close(w.stopCh) })
	if w.started {
		<-w.done
	}
}

func (w *FileWatcher) run(ctx context.Context) {
	defer close(w.done)
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.Scan(ctx)
		}
	}
}

func (w *FileWatcher) snapshot() {
	w.walk(func(path string, info os.FileInfo) {
		w.modTimes[path] = info.ModTime()
	})
}

// Scan compares the tree with the last scan, reparses what changed and
// returns the resulting events.
func (w *FileWatcher) Scan(ctx context.Context) []Event {
	var events []Event
	current := make(map[string]bool)

	w.walk(func(path string, info os.FileInfo) {
		current[path] = true
		if w.codebase.IsOpen(path) {
			return
		}
		lastMod, known := w.modTimes[path]
		if known && !info.ModTime().After(lastMod) {
			return
		}
		w.modTimes[path] = info.ModTime()
		file, err := w.codebase.ScanFile(ctx, path)
		if err != nil {
			w.codebase.log.Warningf("rescan %s: %s", path, err)
			return
		}
		kind := FileModified
		if !known {
			kind = FileCreated
		}
		events = append(events, Event{Kind: kind, Path: path, File: file})
	})

	for path := range w.modTimes {
		if !current[path] {
			delete(w.modTimes, path)
			w.codebase.RemoveFile(path)
			events = append(events, Event{Kind: FileDeleted, Path: path})
		}
	}

	for _, e := range events {
		w.codebase.log.Debugf("%s %s", e.Kind, e.Path)
		if w.onEvent != nil {
			w.onEvent(e)
		}
	}
	return events
}

func (w *FileWatcher) walk(fn func(path string, info os.FileInfo)) {
	root := w.codebase.RootDir()
	cfg := w.codebase.Config()
	filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			if path != root && cfg.Excluded(info.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if cfg.Matches(path) {
			fn(path, info)
		}
		return nil
	})
}
