// Package episode appends (frame, state, action) records to JSONL files for
// offline analysis of agent behavior.
package episode

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"roombot/agent/internal/action"
	"roombot/agent/internal/state"
)

// Record is one logged tick.
type Record struct {
	Frame  uint64          `json:"frame"`
	State  *state.Snapshot `json:"state"`
	Action action.Action   `json:"action"`
}

// Recorder streams records into a uniquely named episode file under dir.
type Recorder struct {
	id   string
	path string

	mu      sync.Mutex
	file    *os.File
	writer  *bufio.Writer
	encoder *json.Encoder
	records uint64
}

// NewRecorder creates dir if needed and opens a new episode file named
// <unix-seconds>-<uuid>.jsonl.
func NewRecorder(dir string) (*Recorder, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create episode directory: %w", err)
	}
	id := uuid.NewString()
	path := filepath.Join(dir, fmt.Sprintf("%d-%s.jsonl", time.Now().Unix(), id))
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		return nil, fmt.Errorf("create episode file: %w", err)
	}
	writer := bufio.NewWriter(file)
	return &Recorder{
		id:      id,
		path:    path,
		file:    file,
		writer:  writer,
		encoder: json.NewEncoder(writer),
	}, nil
}

// ID returns the episode identifier.
func (r *Recorder) ID() string {
	return r.id
}

// Path returns the episode file location.
func (r *Recorder) Path() string {
	return r.path
}

// Record appends one tick.
func (r *Recorder) Record(snap *state.Snapshot, act action.Action) error {
	if snap == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.file == nil {
		return fmt.Errorf("episode %s already closed", r.id)
	}
	if err := r.encoder.Encode(Record{Frame: snap.Frame, State: snap, Action: act}); err != nil {
		return fmt.Errorf("append episode record: %w", err)
	}
	r.records++
	return nil
}

// Records returns how many ticks have been logged.
func (r *Recorder) Records() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.records
}

// Close flushes and closes the episode file.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.file == nil {
		return nil
	}
	flushErr := r.writer.Flush()
	closeErr := r.file.Close()
	r.file = nil
	if flushErr != nil {
		return flushErr
	}
	return closeErr
}
