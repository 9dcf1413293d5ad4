package config

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcher_DebouncesWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	writeFile(t, path, "log_level: info\n")

	w, err := NewWatcher(path, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	w.debounce = 50 * time.Millisecond
	w.Start()
	defer w.Stop()

	// Unrelated files are ignored.
	writeFile(t, filepath.Join(dir, "notes.txt"), "x")
	select {
	case got := <-w.Events():
		t.Fatalf("unexpected event for %s", got)
	case <-time.After(200 * time.Millisecond):
	}

	for i := 0; i < 5; i++ {
		writeFile(t, path, "log_level: debug\n")
	}
	select {
	case got := <-w.Events():
		if filepath.Base(got) != "config.yaml" {
			t.Fatalf("event path = %s", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no event after writes")
	}
	select {
	case got := <-w.Events():
		t.Fatalf("burst produced a second event: %s", got)
	case <-time.After(200 * time.Millisecond):
	}

	writeFile(t, filepath.Join(dir, "config.local.yaml"), "log_level: warn\n")
	select {
	case got := <-w.Events():
		if filepath.Base(got) != "config.local.yaml" {
			t.Fatalf("event path = %s", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no event for local overlay")
	}
}

func TestNewWatcher_MissingDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "config.yaml")
	if _, err := NewWatcher(path, nil); err == nil {
		t.Fatal("expected error for missing directory")
	}
	if _, err := os.Stat(filepath.Dir(path)); !os.IsNotExist(err) {
		t.Fatal("watcher created the directory")
	}
}
