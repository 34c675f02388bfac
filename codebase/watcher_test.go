package codebase

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

// touch moves the modification time of path forward so the change is
// visible regardless of file system timestamp resolution.
func touch(t *testing.T, path string, offset time.Duration) {
	t.Helper()
	when := time.Now().Add(offset)
	if err := os.Chtimes(path, when, when); err != nil {
		t.Fatal(err)
	}
}

func TestWatcherScan(t *testing.T) {
	root := t.TempDir()
	a := filepath.Join(root, "a.py")
	b := filepath.Join(root, "b.py")
	writeFile(t, a, "x = 1\n")

	c := New(root, nil)
	w := NewFileWatcher(c, nil)
	w.snapshot()

	writeFile(t, b, "def g(:\n")
	writeFile(t, a, "x = 2\ny = 3\n")
	touch(t, a, time.Hour)

	events := w.Scan(context.Background())
	kinds := map[string]EventKind{}
	for _, e := range events {
		kinds[e.Path] = e.Kind
	}
	if len(events) != 2 || kinds[a] != FileModified || kinds[b] != FileCreated {
		t.Fatalf("got %+v", events)
	}
	if f := c.GetFile(b); f == nil || len(f.Diagnostics()) == 0 {
		t.Errorf("created file was not parsed with its errors")
	}
	if f := c.GetFile(a); f == nil || len(f.Symbols) != 2 {
		t.Errorf("modified file was not reparsed")
	}

	if events := w.Scan(context.Background()); len(events) != 0 {
		t.Errorf("unchanged tree: got %+v", events)
	}

	if err := os.Remove(b); err != nil {
		t.Fatal(err)
	}
	events = w.Scan(context.Background())
	if len(events) != 1 || events[0].Kind != FileDeleted || events[0].Path != b {
		t.Fatalf("got %+v", events)
	}
	if c.GetFile(b) != nil {
		t.Errorf("deleted file is still known")
	}
}

func TestWatcherSkipsOpenFiles(t *testing.T) {
	root := t.TempDir()
	a := filepath.Join(root, "a.py")
	writeFile(t, a, "x = 1\n")

	c := New(root, nil)
	w := NewFileWatcher(c, nil)
	w.snapshot()

	if _, err := c.UpdateText(context.Background(), a, 1, "editor = 1\n"); err != nil {
		t.Fatal(err)
	}
	c.SetOpen(a, true)
	writeFile(t, a, "disk = 1\n")
	touch(t, a, time.Hour)

	if events := w.Scan(context.Background()); len(events) != 0 {
		t.Errorf("open file was rescanned: %+v", events)
	}
	if got := c.GetFile(a).Source(); got != "editor = 1\n" {
		t.Errorf("editor text replaced by %q", got)
	}

	c.SetOpen(a, false)
	if events := w.Scan(context.Background()); len(events) != 1 {
		t.Errorf("closed file was not rescanned: %+v", events)
	}
}

func TestWatcherStartStop(t *testing.T) {
	root := t.TempDir()
	cfg := New(root, nil).Config()
	cfg.Watch.Interval.Duration = 10 * time.Millisecond

	var mu sync.Mutex
	var seen []Event
	c := New(root, cfg)
	w := NewFileWatcher(c, func(e Event) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, e)
	})
	w.Start(context.Background())
	defer w.Stop()

	writeFile(t, filepath.Join(root, "new.py"), "n = 1\n")

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		mu.Lock()
		n := len(seen)
		mu.Unlock()
		if n > 0 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(seen) == 0 || seen[0].Kind != FileCreated {
		t.Errorf("got %+v, want a created event", seen)
	}
}

func TestWatcherStopWithoutStart(t *testing.T) {
	w := NewFileWatcher(New(t.TempDir(), nil), nil)
	w.Stop()
	w.Stop()
}
