// Package watcher implements the DirectoryWatcher port with fsnotify.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/pdfren/internal/core/ports/driven"
	"github.com/custodia-labs/pdfren/internal/logger"
)

// Watcher reports files created, written or moved into a directory.
// Subdirectories are not watched.
type Watcher struct {
	mu      sync.Mutex
	watcher *fsnotify.Watcher
}

var _ driven.DirectoryWatcher = (*Watcher)(nil)

// New creates a watcher. The fsnotify handle is opened by Watch.
func New() *Watcher {
	return &Watcher{}
}

// Watch starts watching dir. Each event path is sent once per event;
// callers debounce repeated writes.
func (w *Watcher) Watch(ctx context.Context, dir string) (<-chan string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("watching %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("watching %s: not a directory", dir)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watching %s: %w", dir, err)
	}

	w.mu.Lock()
	if w.watcher != nil {
		w.watcher.Close()
	}
	w.watcher = fsw
	w.mu.Unlock()

	out := make(chan string, 64)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-fsw.Events:
				if !ok {
					return
				}
				path, ok := handleEvent(event)
				if !ok {
					continue
				}
				select {
				case out <- path:
				case <-ctx.Done():
					return
				}
			case err, ok := <-fsw.Errors:
				if !ok {
					return
				}
				logger.Warn("watch %s: %v", dir, err)
			}
		}
	}()

	return out, nil
}

// Close stops the underlying fsnotify watcher.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.watcher == nil {
		return nil
	}
	err := w.watcher.Close()
	w.watcher = nil
	return err
}

// handleEvent returns the path of a regular, visible file that was created
// or written. Removes, renames away and chmods are ignored.
func handleEvent(event fsnotify.Event) (string, bool) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return "", false
	}
	if isHidden(event.Name) {
		return "", false
	}
	info, err := os.Stat(event.Name)
	if err != nil || !info.Mode().IsRegular() {
		return "", false
	}
	return event.Name, true
}

// isHidden reports dotfiles and partial downloads.
func isHidden(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".") ||
		strings.HasSuffix(base, ".crdownload") ||
		strings.HasSuffix(base, ".part")
}
