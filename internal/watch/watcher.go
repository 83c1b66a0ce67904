// Package watch keeps the symbol index in sync with the stub corpus by
// watching the stub roots for changes and applying incremental updates.
package watch

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"stubdex/internal/index"
	"stubdex/internal/logging"
	"stubdex/internal/parser"
)

// Stats tracks watcher activity for debugging and tests.
type Stats struct {
	FilesUpdated  int
	FilesRemoved  int
	EventsSeen    int
	Errors        int
	LastEventPath string
	LastEventTime time.Time
}

// Watcher monitors stub roots and applies file-level index updates after a
// debounce window, so rapid editor saves collapse into one reparse.
type Watcher struct {
	mu          sync.RWMutex
	watcher     *fsnotify.Watcher
	store       *index.Store
	roots       []string
	extensions  map[string]bool
	debounceDur time.Duration
	pending     map[string]time.Time
	stopCh      chan struct{}
	doneCh      chan struct{}
	running     bool
	stats       Stats
}

// New creates a Watcher over the given roots. Events for files whose
// extension is not listed are ignored.
func New(store *index.Store, roots []string, extensions []string, debounce time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}

	extSet := make(map[string]bool, len(extensions))
	for _, e := range extensions {
		extSet[strings.ToLower(e)] = true
	}

	return &Watcher{
		watcher:     fsw,
		store:       store,
		roots:       roots,
		extensions:  extSet,
		debounceDur: debounce,
		pending:     make(map[string]time.Time),
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}, nil
}

// Start begins watching. Non-blocking; the event loop runs in a goroutine
// until Stop is called or ctx is cancelled. fsnotify does not recurse, so
// every subdirectory of each root is added individually.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	for _, root := range w.roots {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() {
				return nil
			}
			if strings.HasPrefix(d.Name(), ".") && path != root {
				return filepath.SkipDir
			}
			if err := w.watcher.Add(path); err != nil {
				logging.Get(logging.CategoryWatch).Warn("cannot watch %s: %v", path, err)
				return nil
			}
			logging.WatchDebug("watching %s", path)
			return nil
		})
		if err != nil {
			logging.Get(logging.CategoryWatch).Warn("walk %s failed: %v", root, err)
		}
	}

	go w.run(ctx)
	return nil
}

// Stop stops the watcher and waits for the event loop to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	if err := w.watcher.Close(); err != nil {
		logging.Get(logging.CategoryWatch).Error("error closing watcher: %v", err)
	}
	logging.Watch("watcher stopped")
}

// Stats returns a snapshot of the activity counters.
func (w *Watcher) Stats() Stats {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.stats
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	flushTicker := time.NewTicker(100 * time.Millisecond)
	defer flushTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			logging.Watch("context cancelled")
			return
		case <-w.stopCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.mu.Lock()
			w.stats.Errors++
			w.mu.Unlock()
			logging.Get(logging.CategoryWatch).Error("watch error: %v", err)

		case <-flushTicker.C:
			w.flushPending()
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	// New directories must be added to the watch set immediately.
	if event.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			_ = w.watcher.Add(event.Name)
			return
		}
	}

	if !w.extensions[strings.ToLower(filepath.Ext(event.Name))] {
		return
	}

	w.mu.Lock()
	w.stats.EventsSeen++
	w.stats.LastEventPath = event.Name
	w.stats.LastEventTime = time.Now()
	w.mu.Unlock()

	switch {
	case event.Op.Has(fsnotify.Remove) || event.Op.Has(fsnotify.Rename):
		w.mu.Lock()
		delete(w.pending, event.Name)
		w.mu.Unlock()
		if err := w.store.RemoveFile(event.Name); err != nil {
			logging.Get(logging.CategoryWatch).Error("remove %s from index: %v", event.Name, err)
			w.bumpErrors()
			return
		}
		w.mu.Lock()
		w.stats.FilesRemoved++
		w.mu.Unlock()
		logging.Watch("removed %s from index", event.Name)

	case event.Op.Has(fsnotify.Write) || event.Op.Has(fsnotify.Create):
		w.mu.Lock()
		w.pending[event.Name] = time.Now()
		w.mu.Unlock()
	}
}

// flushPending reparses and reindexes files whose last event is older than
// the debounce window.
func (w *Watcher) flushPending() {
	now := time.Now()

	w.mu.Lock()
	var due []string
	for path, last := range w.pending {
		if now.Sub(last) >= w.debounceDur {
			due = append(due, path)
			delete(w.pending, path)
		}
	}
	w.mu.Unlock()

	for _, path := range due {
		f, issues, err := parser.ParseFile(path)
		if err != nil {
			logging.Get(logging.CategoryWatch).Error("reparse %s: %v", path, err)
			w.bumpErrors()
			continue
		}
		if len(issues) > 0 {
			logging.Get(logging.CategoryWatch).Warn("%s has %d issues; indexing recovered declarations", path, len(issues))
		}
		if err := w.store.UpdateFile(f); err != nil {
			logging.Get(logging.CategoryWatch).Error("reindex %s: %v", path, err)
			w.bumpErrors()
			continue
		}
		w.mu.Lock()
		w.stats.FilesUpdated++
		w.mu.Unlock()
		logging.Watch("reindexed %s", path)
	}
}

func (w *Watcher) bumpErrors() {
	w.mu.Lock()
	w.stats.Errors++
	w.mu.Unlock()
}
