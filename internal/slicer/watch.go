package slicer

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/standardbeagle/transpile-pipeline/internal/debug"
)

// debounceWindow is how long the watcher waits after the last observed
// change before triggering a rebuild.
const debounceWindow = 300 * time.Millisecond

// Watch re-runs rebuild for the affected file set whenever a source file
// under root changes, debounced by debounceWindow so a burst of saves (e.g.
// from a build tool rewriting several headers) triggers one rebuild instead
// of one per file. rebuild receives the full accumulated set of changed
// paths since the last run. Blocks until ctx is canceled.
func Watch(ctx context.Context, root string, include, exclude []string, rebuild func(changed []string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := addRecursive(watcher, root); err != nil {
		return err
	}

	var mu sync.Mutex
	pending := make(map[string]struct{})
	var timer *time.Timer

	flush := func() {
		mu.Lock()
		changed := make([]string, 0, len(pending))
		for path := range pending {
			changed = append(changed, path)
		}
		pending = make(map[string]struct{})
		mu.Unlock()

		if len(changed) == 0 {
			return
		}
		debug.LogSlicer("watch: rebuilding for %d changed file(s)", len(changed))
		rebuild(changed)
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			rel := event.Name
			if !matchesAny(exclude, rel) && (len(include) == 0 || matchesAny(include, rel)) {
				mu.Lock()
				pending[event.Name] = struct{}{}
				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(debounceWindow, flush)
				mu.Unlock()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			debug.LogSlicer("watch error: %v", err)
		}
	}
}

func addRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
}
