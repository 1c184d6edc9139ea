package adapter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/hashicorp/go-hclog"

	m "github.com/ShieldCI/laravel-sub000/internal/model"
)

// watchDebounce coalesces editor save bursts into one notification.
const watchDebounce = 300 * time.Millisecond

// ChangeWatcher signals batches of filesystem changes under a tree.
type ChangeWatcher interface {
	// Watch blocks until ctx is done, invoking onChange once per quiet
	// period after a burst of changes.
	Watch(ctx context.Context, base m.Path, onChange func()) error
}

// FSWatcher is the fsnotify-backed ChangeWatcher. Directories created while
// watching are added to the watch set; the report directory and VCS metadata
// never trigger notifications.
type FSWatcher struct {
	log      hclog.Logger
	debounce time.Duration
}

// NewFSWatcher constructs an FSWatcher with the default debounce window.
func NewFSWatcher(log hclog.Logger) *FSWatcher {
	return &FSWatcher{log: log, debounce: watchDebounce}
}

// Watch blocks, forwarding debounced change notifications, until ctx is done.
func (w *FSWatcher) Watch(ctx context.Context, base m.Path, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer watcher.Close()

	if err := w.addTree(watcher, string(base)); err != nil {
		return err
	}

	// The timer starts drained; every relevant event re-arms it.
	debounce := time.NewTimer(w.debounce)
	if !debounce.Stop() {
		<-debounce.C
	}
	defer debounce.Stop()

	pending := false

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if ignoredWatchPath(event.Name) {
				continue
			}

			if event.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(event.Name); statErr == nil && info.IsDir() {
					if addErr := w.addTree(watcher, event.Name); addErr != nil {
						w.log.Warn("cannot watch new directory", "path", event.Name, "error", addErr)
					}
				}
			}

			if !debounce.Stop() && pending {
				select {
				case <-debounce.C:
				default:
				}
			}

			debounce.Reset(w.debounce)
			pending = true

		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			w.log.Warn("watch error", "error", watchErr)

		case <-debounce.C:
			if pending {
				pending = false
				onChange()
			}
		}
	}
}

// addTree registers dir and every subdirectory beneath it.
func (w *FSWatcher) addTree(watcher *fsnotify.Watcher, dir string) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if !info.IsDir() {
			return nil
		}

		if path != dir && ignoredWatchPath(path) {
			return filepath.SkipDir
		}

		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}

		return nil
	})
}

// ignoredWatchPath drops the report directory and VCS/tooling metadata so
// saving a report never re-triggers the run that produced it.
func ignoredWatchPath(path string) bool {
	for _, segment := range strings.Split(filepath.ToSlash(path), "/") {
		switch segment {
		case reportDirName, ".git", ".idea", "node_modules":
			return true
		}
	}

	return false
}
