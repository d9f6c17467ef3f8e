package usecases

import (
	"context"
	"log"
	"sync"

	"github.com/0xcro3dile/ragctl/internal/domain/entities"
	"github.com/0xcro3dile/ragctl/internal/domain/ports"
)

// RegistryState describes what the document list currently shows.
type RegistryState int

const (
	RegistryPending RegistryState = iota // No fetch has completed yet
	RegistryEmpty
	RegistryLoaded
	RegistryFailed
)

// RegistrySnapshot is a read-only copy of the registry.
type RegistrySnapshot struct {
	State     RegistryState
	Documents []entities.Document
	Err       error
}

// DocumentRegistry fetches and holds the list of ingested documents.
// The list is replaced wholesale on every refresh.
type DocumentRegistry struct {
	listeners

	svc ports.RAGService

	mu      sync.Mutex
	state   RegistryState
	docs    []entities.Document
	err     error
	issued  uint64
	applied uint64
}

// NewDocumentRegistry creates a registry backed by the service.
func NewDocumentRegistry(svc ports.RAGService) *DocumentRegistry {
	return &DocumentRegistry{svc: svc}
}

// Refresh performs one list call and replaces the held list.
// When refreshes overlap, the most recently issued one wins: a response is
// dropped if a later-issued refresh has already been applied.
func (r *DocumentRegistry) Refresh(ctx context.Context) error {
	r.mu.Lock()
	r.issued++
	ticket := r.issued
	r.mu.Unlock()

	docs, err := r.svc.ListDocuments(ctx)
	if err != nil {
		log.Printf("[ERROR] Loading documents: %v", err)
	}

	r.mu.Lock()
	if ticket < r.applied {
		r.mu.Unlock()
		return err
	}
	r.applied = ticket
	switch {
	case err != nil:
		r.state, r.docs, r.err = RegistryFailed, nil, err
	case len(docs) == 0:
		r.state, r.docs, r.err = RegistryEmpty, nil, nil
	default:
		r.state, r.docs, r.err = RegistryLoaded, docs, nil
	}
	r.mu.Unlock()

	r.notify()
	return err
}

// Snapshot returns the current list state.
func (r *DocumentRegistry) Snapshot() RegistrySnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	docs := make([]entities.Document, len(r.docs))
	copy(docs, r.docs)
	return RegistrySnapshot{State: r.state, Documents: docs, Err: r.err}
}
