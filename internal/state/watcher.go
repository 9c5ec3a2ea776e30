package state

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const watchDebounce = 4 * time.Millisecond

// Watcher refreshes a FileReader from filesystem notifications instead of
// fixed-interval polling. The watch is placed on the parent directory
// because the mod replaces the state file by rename, which would silently
// detach a watch on the file itself.
type Watcher struct {
	reader  *FileReader
	watcher *fsnotify.Watcher
	closeCh chan struct{}
	once    sync.Once
}

// NewWatcher wraps reader with an fsnotify-driven refresh loop. Callers that
// receive an error should fall back to polling the reader directly.
func NewWatcher(reader *FileReader, path string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watch state directory: %w", err)
	}

	w := &Watcher{
		reader:  reader,
		watcher: fsw,
		closeCh: make(chan struct{}),
	}
	go w.run(filepath.Base(path))
	return w, nil
}

// Latest returns the reader's cached snapshot; refreshes happen on events.
func (w *Watcher) Latest() *Snapshot {
	return w.reader.Cached()
}

// Close stops the event loop and releases the watch.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
	})
	return err
}

func (w *Watcher) run(name string) {
	var lastRefresh time.Time
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			now := time.Now()
			if now.Sub(lastRefresh) < watchDebounce {
				continue
			}
			lastRefresh = now
			w.reader.Refresh()
		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
		case <-w.closeCh:
			return
		}
	}
}
