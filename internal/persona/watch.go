package persona

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"nexusai/internal/logging"
)

// Watcher reloads a catalog when its backing YAML file changes. Used in serve
// mode so persona edits take effect without a restart. Editors often emit a
// burst of events per save, so reloads are debounced.
type Watcher struct {
	mu      sync.Mutex
	watcher *fsnotify.Watcher
	catalog *Catalog
	path    string
	pending bool
	stopCh  chan struct{}
	doneCh  chan struct{}
	running bool
}

// NewWatcher creates a watcher for the catalog file at path.
func NewWatcher(path string, catalog *Catalog) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		watcher: fw,
		catalog: catalog,
		path:    path,
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}, nil
}

// Start begins watching. Non-blocking; the watch loop runs in a goroutine
// until Stop is called or the context is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	// Watch the directory rather than the file: editors that replace the
	// file on save would otherwise drop the watch.
	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		// The loop never started, so undo the running mark and release the
		// fsnotify handle; a later Stop is then a no-op instead of a hang.
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		if cerr := w.watcher.Close(); cerr != nil {
			logging.Get(logging.CategoryPersona).Error("error closing catalog watcher: %v", cerr)
		}
		return err
	}
	logging.Persona("watching persona catalog %s", w.path)

	go w.run(ctx)
	return nil
}

// Stop stops the watcher and waits for the loop to exit.
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
		logging.Get(logging.CategoryPersona).Error("error closing catalog watcher: %v", err)
	}
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-w.stopCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				w.mu.Lock()
				w.pending = true
				w.mu.Unlock()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logging.Get(logging.CategoryPersona).Error("catalog watcher error: %v", err)

		case <-ticker.C:
			w.reloadIfPending()
		}
	}
}

func (w *Watcher) reloadIfPending() {
	w.mu.Lock()
	if !w.pending {
		w.mu.Unlock()
		return
	}
	w.pending = false
	w.mu.Unlock()

	if err := w.catalog.ReloadFile(w.path); err != nil {
		// Keep serving the previous catalog on a bad edit.
		logging.Get(logging.CategoryPersona).Warn("catalog reload failed, keeping previous: %v", err)
	}
}
