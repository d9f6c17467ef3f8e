// Package ports defines interfaces for external dependencies.
// Usecases depend on these abstractions; adapters implement them.
package ports

import (
	"context"

	"github.com/0xcro3dile/ragctl/internal/domain/entities"
)

// RAGService is the remote ingestion and answering service.
// Non-2xx responses and transport failures are both returned as errors.
type RAGService interface {
	// Upload sends one file for ingestion.
	Upload(ctx context.Context, file entities.LocalFile) (*entities.UploadResult, error)

	// ListDocuments returns ingested documents in service order.
	ListDocuments(ctx context.Context) ([]entities.Document, error)

	// Ask submits a question and returns the answer with its metadata.
	Ask(ctx context.Context, question string) (*entities.Answer, error)

	// ClearCache drops every cached answer on the service.
	ClearCache(ctx context.Context) error

	// Health reports service status.
	Health(ctx context.Context) (*entities.Health, error)
}

// Dialog is a blocking user interaction.
type Dialog interface {
	// Confirm asks a yes/no question and blocks for the answer.
	Confirm(ctx context.Context, prompt string) (bool, error)

	// Alert shows a message and blocks until acknowledged.
	Alert(ctx context.Context, message string) error
}

// FileWatcher monitors a directory for new files.
type FileWatcher interface {
	// Watch starts monitoring the directory and emits events.
	Watch(ctx context.Context, dir string) (<-chan FileEvent, error)

	// Stop stops the watcher.
	Stop() error
}

// FileEvent represents a file system change.
type FileEvent struct {
	Path      string
	Operation FileOperation
}

// FileOperation is the type of file change.
type FileOperation int

const (
	FileCreated FileOperation = iota
	FileModified
	FileDeleted
)
