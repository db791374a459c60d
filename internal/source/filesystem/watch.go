package filesystem

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceInterval collapses bursts of file events into one change.
const debounceInterval = 100 * time.Millisecond

// Watch calls onChange after documents, sidecars or directories below the
// content root change. It blocks until ctx is cancelled.
func (p *Provider) Watch(ctx context.Context, onChange func(name string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watchDirRecursive(watcher, p.root); err != nil {
		return fmt.Errorf("failed to watch content dir: %w", err)
	}

	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}

			// New directories need their own watch.
			if event.Op&fsnotify.Create != 0 {
				if isDir(event.Name) {
					if err := watchDirRecursive(watcher, event.Name); err != nil {
						p.logger.Warn("failed to watch new directory", "dir", event.Name, "error", err)
					}
				}
			}

			if !relevant(event.Name) {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			name := event.Name
			debounceTimer = time.AfterFunc(debounceInterval, func() {
				p.logger.Debug("content changed", "file", name)
				onChange(name)
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			p.logger.Error("watcher error", "error", err)
		}
	}
}

// relevant reports whether a change to name can alter the tree or a document.
func relevant(name string) bool {
	base := filepath.Base(name)
	if strings.HasPrefix(base, ".") {
		return false
	}
	switch strings.ToLower(filepath.Ext(base)) {
	case DocumentExt, ".yaml", ".yml":
		return true
	case "":
		// Directories and extensionless removals.
		return true
	}
	return false
}

func isDir(name string) bool {
	info, err := os.Stat(name)
	return err == nil && info.IsDir()
}

// watchDirRecursive adds a directory and all subdirectories to the watcher.
func watchDirRecursive(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return watcher.Add(path)
		}
		return nil
	})
}
