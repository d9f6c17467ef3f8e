package usecases

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/0xcro3dile/ragctl/internal/domain/entities"
	"github.com/0xcro3dile/ragctl/internal/domain/ports"
)

// DefaultQueueSize bounds the number of batches waiting for the worker.
const DefaultQueueSize = 16

// UploadPipeline uploads selected files one at a time and reports each outcome.
// Batches are queued and served by a single worker, so uploads never overlap.
type UploadPipeline struct {
	svc      ports.RAGService
	status   *StatusNotifier
	registry *DocumentRegistry
	queue    chan []entities.LocalFile

	mu        sync.Mutex
	selection []entities.LocalFile
	queued    int           // Batches enqueued and not yet processed
	idle      chan struct{} // Closed when queued drops to zero
}

// NewUploadPipeline creates a pipeline reporting to status and refreshing registry.
func NewUploadPipeline(
	svc ports.RAGService,
	status *StatusNotifier,
	registry *DocumentRegistry,
	queueSize int,
) *UploadPipeline {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	return &UploadPipeline{
		svc:      svc,
		status:   status,
		registry: registry,
		queue:    make(chan []entities.LocalFile, queueSize),
	}
}

// Process uploads a batch in order, then clears the selection and refreshes
// the document registry whatever the individual outcomes were.
// An empty batch does nothing.
func (p *UploadPipeline) Process(ctx context.Context, files []entities.LocalFile) []entities.UploadOutcome {
	if len(files) == 0 {
		return nil
	}

	p.setSelection(files)

	outcomes := make([]entities.UploadOutcome, 0, len(files))
	for _, f := range files {
		outcomes = append(outcomes, p.uploadFile(ctx, f))
	}

	p.setSelection(nil)
	_ = p.registry.Refresh(ctx) // Failure is held by the registry

	return outcomes
}

// Enqueue hands a batch to the worker, blocking while the queue is full.
func (p *UploadPipeline) Enqueue(ctx context.Context, files []entities.LocalFile) error {
	if len(files) == 0 {
		return nil
	}
	p.mu.Lock()
	if p.queued == 0 {
		p.idle = make(chan struct{})
	}
	p.queued++
	p.mu.Unlock()

	select {
	case p.queue <- files:
		return nil
	case <-ctx.Done():
		p.batchDone()
		return ctx.Err()
	}
}

// Run serves queued batches until ctx is cancelled.
func (p *UploadPipeline) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case batch := <-p.queue:
			p.Process(ctx, batch)
			p.batchDone()
		}
	}
}

// Drain blocks until every enqueued batch has been processed or ctx is done.
// Run must be serving the queue.
func (p *UploadPipeline) Drain(ctx context.Context) error {
	p.mu.Lock()
	if p.queued == 0 {
		p.mu.Unlock()
		return nil
	}
	idle := p.idle
	p.mu.Unlock()

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *UploadPipeline) batchDone() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.queued--
	if p.queued == 0 {
		close(p.idle)
	}
}

// Selection returns the batch currently being processed, if any.
func (p *UploadPipeline) Selection() []entities.LocalFile {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]entities.LocalFile, len(p.selection))
	copy(out, p.selection)
	return out
}

func (p *UploadPipeline) setSelection(files []entities.LocalFile) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.selection = files
}

// uploadFile uploads one file and emits its loading and final statuses.
func (p *UploadPipeline) uploadFile(ctx context.Context, f entities.LocalFile) entities.UploadOutcome {
	p.status.Show(entities.StatusLoading, fmt.Sprintf("Uploading %s...", f.Name))

	res, err := p.svc.Upload(ctx, f)
	if err != nil {
		log.Printf("[ERROR] Uploading %s: %v", f.Name, err)
		p.status.Show(entities.StatusError, fmt.Sprintf("✗ Error uploading %s: %v", f.Name, err))
		return entities.UploadOutcome{File: f, Err: err}
	}

	log.Printf("[INFO] Uploaded %s: %d chunks", f.Name, res.ChunksCreated)
	p.status.Show(entities.StatusSuccess,
		fmt.Sprintf("✓ %s uploaded successfully! Created %d chunks.", f.Name, res.ChunksCreated))
	return entities.UploadOutcome{File: f, Result: res}
}
