// Package filewatcher provides the drop-folder adapter.
// It implements ports.FileWatcher using fsnotify.
package filewatcher

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/0xcro3dile/ragctl/internal/domain/ports"
)

// DefaultExtensions are the file types the service accepts for ingestion.
var DefaultExtensions = []string{"pdf", "docx", "doc", "pptx", "ppt", "xlsx", "xls", "csv", "json", "txt"}

// DropWatcher implements ports.FileWatcher for a drop folder.
// Only files with an accepted extension are reported; hidden files are skipped.
type DropWatcher struct {
	watcher    *fsnotify.Watcher
	extensions map[string]struct{} // Lower-case, with leading dot
}

// NewDropWatcher creates a watcher accepting the given extensions.
// Extensions may be given with or without the leading dot.
func NewDropWatcher(extensions []string) (*DropWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	exts := make(map[string]struct{}, len(extensions))
	for _, e := range extensions {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		exts[e] = struct{}{}
	}

	return &DropWatcher{watcher: w, extensions: exts}, nil
}

// Watch starts monitoring dir, creating it if needed, and emits events.
// The channel closes when ctx is cancelled or the watcher is stopped.
func (w *DropWatcher) Watch(ctx context.Context, dir string) (<-chan ports.FileEvent, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	if err := w.watcher.Add(dir); err != nil {
		return nil, err
	}

	events := make(chan ports.FileEvent, 100)

	go func() {
		defer close(events)
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-w.watcher.Events:
				if !ok {
					return
				}
				if !w.accepts(event.Name) {
					continue
				}

				var op ports.FileOperation
				switch {
				case event.Has(fsnotify.Create):
					op = ports.FileCreated
				case event.Has(fsnotify.Write):
					op = ports.FileModified
				case event.Has(fsnotify.Remove):
					op = ports.FileDeleted
				default:
					continue
				}

				select {
				case events <- ports.FileEvent{Path: event.Name, Operation: op}:
				case <-ctx.Done():
					return
				}
			case err, ok := <-w.watcher.Errors:
				if !ok {
					return
				}
				log.Printf("[WARN] Drop folder watcher: %v", err)
			}
		}
	}()

	return events, nil
}

// Stop stops the watcher.
func (w *DropWatcher) Stop() error {
	return w.watcher.Close()
}

// accepts reports whether path is a visible file with an accepted extension.
func (w *DropWatcher) accepts(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return false
	}
	_, ok := w.extensions[strings.ToLower(filepath.Ext(base))]
	return ok
}
