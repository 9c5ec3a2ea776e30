package action

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
)

// Writer persists actions for the mod to pick up. Writes go to a sibling
// temp file first and are renamed over the target, so the mod never observes
// a partially written document.
type Writer struct {
	path string

	writes atomic.Uint64
	errors atomic.Uint64
}

// NewWriter constructs a writer targeting path.
func NewWriter(path string) *Writer {
	return &Writer{path: path}
}

// Write serializes the clamped action and atomically replaces the target
// file, creating parent directories on first use.
func (w *Writer) Write(a Action) error {
	data, err := json.Marshal(a.Clamp())
	if err != nil {
		w.errors.Add(1)
		return fmt.Errorf("marshal action: %w", err)
	}

	if dir := filepath.Dir(w.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			w.errors.Add(1)
			return fmt.Errorf("create action directory: %w", err)
		}
	}

	tmpPath := w.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		w.errors.Add(1)
		return fmt.Errorf("write temp action: %w", err)
	}
	if err := os.Rename(tmpPath, w.path); err != nil {
		w.errors.Add(1)
		return fmt.Errorf("replace action: %w", err)
	}

	w.writes.Add(1)
	return nil
}

// Clear writes the zero action, stopping all movement and shooting.
func (w *Writer) Clear() error {
	return w.Write(Action{})
}

// Stats reports lifetime write and error counts.
func (w *Writer) Stats() (writes, errors uint64) {
	return w.writes.Load(), w.errors.Load()
}
