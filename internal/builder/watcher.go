package builder

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const debounceDelay = 2 * time.Second

// Watcher rebuilds the whole dataset file once a burst of changes settles.
// Row ids are positional, so there is no incremental update path.
type Watcher struct {
	builder   *Builder
	dataPath  string
	watcher   *fsnotify.Watcher
	pending   map[string]time.Time
	mu        sync.Mutex
	stop      chan struct{}
	onMessage func(string)
}

func NewWatcher(builder *Builder, dataPath string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	return &Watcher{
		builder:  builder,
		dataPath: dataPath,
		watcher:  fsw,
		pending:  make(map[string]time.Time),
		stop:     make(chan struct{}),
	}, nil
}

func (w *Watcher) SetMessageHandler(fn func(string)) {
	w.onMessage = fn
}

func (w *Watcher) Start(ctx context.Context) error {
	if err := w.addWatchRecursive(w.builder.dir); err != nil {
		return err
	}

	go w.processEvents(ctx)
	go w.processPending(ctx)

	w.message(fmt.Sprintf("Watching %s for changes...", w.builder.dir))

	<-ctx.Done()
	return nil
}

func (w *Watcher) Stop() {
	close(w.stop)
	w.watcher.Close()
}

func (w *Watcher) addWatchRecursive(dir string) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			if isHiddenDir(info.Name()) && path != w.builder.dir {
				return filepath.SkipDir
			}
			return w.watcher.Add(path)
		}

		return nil
	})
}

func (w *Watcher) processEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stop:
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
			w.message(fmt.Sprintf("Watch error: %v", err))
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op&fsnotify.Create == fsnotify.Create {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if !isHiddenDir(info.Name()) {
				w.addWatchRecursive(event.Name) //nolint:errcheck
			}
			return
		}
	}

	if !isMarkdownFile(event.Name) {
		return
	}

	relPath, err := filepath.Rel(w.builder.dir, event.Name)
	if err != nil {
		return
	}

	if isHiddenRelPath(relPath) {
		return
	}

	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	w.pending[relPath] = time.Now()
	w.message(fmt.Sprintf("Detected change: %s", relPath))
}

func (w *Watcher) processPending(ctx context.Context) {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stop:
			return
		case <-ticker.C:
			w.rebuildIfQuiet()
		}
	}
}

func (w *Watcher) rebuildIfQuiet() {
	w.mu.Lock()
	if len(w.pending) == 0 {
		w.mu.Unlock()
		return
	}

	var newest time.Time
	for _, ts := range w.pending {
		if ts.After(newest) {
			newest = ts
		}
	}
	if time.Since(newest) < debounceDelay {
		w.mu.Unlock()
		return
	}

	changed := len(w.pending)
	w.pending = make(map[string]time.Time)
	w.mu.Unlock()

	w.message(fmt.Sprintf("Rebuilding index (%d files changed)", changed))
	if err := w.builder.BuildFile(w.dataPath, nil); err != nil {
		w.message(fmt.Sprintf("Rebuild failed: %v", err))
	} else {
		w.message(fmt.Sprintf("Index rebuilt: %s", w.dataPath))
	}
}

func (w *Watcher) message(msg string) {
	if w.onMessage != nil {
		w.onMessage(msg)
	} else {
		fmt.Println(msg)
	}
}
