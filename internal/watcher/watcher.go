// Package watcher reports debounced changes below a directory tree.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/mlhartme/sushi-sub000/internal/debug"
)

// DefaultDebounce is the quiet period before a batch of changes is reported.
const DefaultDebounce = 300 * time.Millisecond

// tick is how often pending changes are checked against the debounce period.
const tick = 50 * time.Millisecond

// Watcher watches a directory tree recursively using fsnotify.
type Watcher struct {
	root     string
	ignore   func(rel string) bool
	debounce time.Duration
	fs       *fsnotify.Watcher
	pending  map[string]time.Time // rel path -> last change
}

// New creates a watcher for root. ignore, if not nil, receives slash
// separated paths relative to root; ignored directories are not watched.
func New(root string, ignore func(rel string) bool, debounce time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if ignore == nil {
		ignore = func(string) bool { return false }
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	w := &Watcher{
		root:     root,
		ignore:   ignore,
		debounce: debounce,
		fs:       fsw,
		pending:  make(map[string]time.Time),
	}
	if err := w.addRecursive(root); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	return w, nil
}

// addRecursive adds a directory and all its subdirectories to the watch list.
func (w *Watcher) addRecursive(dir string) error {
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if rel := w.rel(path); rel != "" && w.ignore(rel) {
			return filepath.SkipDir
		}
		if err := w.fs.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		debug.Debug("[watcher] Watching: %s", path)
		return nil
	})
}

func (w *Watcher) rel(path string) string {
	rel, err := filepath.Rel(w.root, path)
	if err != nil || rel == "." {
		return ""
	}
	return filepath.ToSlash(rel)
}

// Run delivers batches of changed paths to onChange until ctx is done.
// A batch is delivered once no further change arrived for the debounce
// period. onChange runs on the caller's goroutine; changes arriving while it
// runs are collected into the next batch.
func (w *Watcher) Run(ctx context.Context, onChange func(paths []string)) error {
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			w.handle(event)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			debug.Debug("[watcher] Error: %v", err)

		case now := <-ticker.C:
			if batch := w.due(now); batch != nil {
				debug.Debug("[watcher] Delivering %d changes", len(batch))
				onChange(batch)
			}
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	rel := w.rel(event.Name)
	if rel == "" || w.ignore(rel) {
		return
	}
	if event.Op == fsnotify.Chmod {
		// some editors touch files without changing them
		return
	}
	debug.Debug("[watcher] Event: %s %s", event.Op, rel)

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addRecursive(event.Name); err != nil {
				debug.Debug("[watcher] %v", err)
			}
		}
	}
	w.pending[rel] = time.Now()
}

// due returns the pending paths once the newest change is older than the
// debounce period, and nil otherwise.
func (w *Watcher) due(now time.Time) []string {
	if len(w.pending) == 0 {
		return nil
	}
	var latest time.Time
	for _, changed := range w.pending {
		if changed.After(latest) {
			latest = changed
		}
	}
	if now.Sub(latest) < w.debounce {
		return nil
	}

	batch := make([]string, 0, len(w.pending))
	for rel := range w.pending {
		batch = append(batch, rel)
	}
	sort.Strings(batch)
	w.pending = make(map[string]time.Time)
	return batch
}

// Close stops watching and releases resources.
func (w *Watcher) Close() error {
	return w.fs.Close()
}
