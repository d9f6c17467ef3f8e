package usecases

import (
	"context"
	"log"
	"path/filepath"

	"github.com/0xcro3dile/ragctl/internal/domain/entities"
	"github.com/0xcro3dile/ragctl/internal/domain/ports"
)

// WatchDropFolder feeds files created in dir into the upload queue, one batch
// per file. It returns when ctx is cancelled or the watcher closes.
func (p *UploadPipeline) WatchDropFolder(ctx context.Context, watcher ports.FileWatcher, dir string) error {
	events, err := watcher.Watch(ctx, dir)
	if err != nil {
		return err
	}

	log.Printf("[INFO] Watching %s for new documents", dir)

	for event := range events {
		// TODO: debounce Write events so files still being copied are not uploaded early.
		if event.Operation != ports.FileCreated {
			continue
		}
		file := entities.LocalFile{Name: filepath.Base(event.Path), Path: event.Path}
		if err := p.Enqueue(ctx, []entities.LocalFile{file}); err != nil {
			return nil
		}
	}
	return nil
}
