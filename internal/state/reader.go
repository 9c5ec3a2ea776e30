package state

import (
	"encoding/json"
	"os"
	"sync"
	"time"
)

// DefaultStaleAfter is how old the state file may grow before its contents
// stop being trusted as live.
const DefaultStaleAfter = 5 * time.Second

// ReaderStats summarizes a reader's lifetime behavior for status reporting.
type ReaderStats struct {
	Reads     uint64
	Errors    uint64
	LastFrame uint64
	Stale     bool
}

// FileReader polls the snapshot file the instrumentation mod rewrites every
// frame. It re-decodes only when the file's mtime changes, ignores stale
// files, and only adopts snapshots whose frame counter advances, so a
// half-written or replayed dump never goes backwards in time.
type FileReader struct {
	path       string
	staleAfter time.Duration

	mu        sync.Mutex
	lastMtime time.Time
	lastFrame uint64
	hasFrame  bool
	cached    *Snapshot
	stale     bool
	reads     uint64
	errors    uint64
}

// NewFileReader constructs a reader for path. staleAfter <= 0 selects
// DefaultStaleAfter.
func NewFileReader(path string, staleAfter time.Duration) *FileReader {
	if staleAfter <= 0 {
		staleAfter = DefaultStaleAfter
	}
	return &FileReader{path: path, staleAfter: staleAfter}
}

// Latest polls the file and returns the freshest adopted snapshot. Missing
// files, stale files, and decode failures all fall back to the cached value.
func (r *FileReader) Latest() *Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pollLocked()
	return r.cached
}

// Cached returns the last adopted snapshot without touching the filesystem.
func (r *FileReader) Cached() *Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cached
}

// Refresh forces one poll, reporting whether a new snapshot was adopted.
func (r *FileReader) Refresh() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pollLocked()
}

// Stats reports lifetime counters.
func (r *FileReader) Stats() ReaderStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return ReaderStats{
		Reads:     r.reads,
		Errors:    r.errors,
		LastFrame: r.lastFrame,
		Stale:     r.stale,
	}
}

// Close satisfies Source; the reader holds no resources between polls.
func (r *FileReader) Close() error {
	return nil
}

func (r *FileReader) pollLocked() bool {
	info, err := os.Stat(r.path)
	if err != nil {
		r.errors++
		return false
	}

	mtime := info.ModTime()
	if mtime.Equal(r.lastMtime) {
		return false
	}
	if time.Since(mtime) > r.staleAfter {
		r.stale = true
		return false
	}
	r.lastMtime = mtime
	r.stale = false

	data, err := os.ReadFile(r.path)
	if err != nil {
		r.errors++
		return false
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		r.errors++
		return false
	}
	snap.truncate()

	if r.hasFrame && snap.Frame <= r.lastFrame {
		return false
	}
	r.lastFrame = snap.Frame
	r.hasFrame = true
	r.cached = &snap
	r.reads++
	return true
}
