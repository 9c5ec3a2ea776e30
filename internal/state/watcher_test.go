package state

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherRefreshesOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "state.json")

	reader := NewFileReader(path, 0)
	watcher, err := NewWatcher(reader, path)
	if err != nil {
		t.Skipf("fsnotify unavailable: %v", err)
	}
	defer watcher.Close()

	if snap := watcher.Latest(); snap != nil {
		t.Fatalf("no snapshot expected before the first write, got %+v", snap)
	}

	data, err := json.Marshal(testPlayerSnapshot(1))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write state: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if snap := watcher.Latest(); snap != nil && snap.Frame == 1 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("watcher never adopted the written snapshot")
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "state.json")

	reader := NewFileReader(path, 0)
	watcher, err := NewWatcher(reader, path)
	if err != nil {
		t.Skipf("fsnotify unavailable: %v", err)
	}
	defer watcher.Close()

	if err := os.WriteFile(filepath.Join(dir, "other.json"), []byte("{}"), 0o644); err != nil {
		t.Fatalf("write sibling: %v", err)
	}

	time.Sleep(50 * time.Millisecond)
	if snap := watcher.Latest(); snap != nil {
		t.Fatalf("sibling file writes must not produce snapshots, got %+v", snap)
	}
}

func TestWatcherMissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent", "state.json")
	reader := NewFileReader(path, 0)

	if _, err := NewWatcher(reader, path); err == nil {
		t.Fatalf("expected an error for a missing directory")
	}
}
