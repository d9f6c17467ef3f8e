package usecases

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/0xcro3dile/ragctl/internal/domain/entities"
	"github.com/0xcro3dile/ragctl/internal/domain/ports"
)

// mockService implements ports.RAGService for testing
type mockService struct {
	mu      sync.Mutex
	uploads []string
	asks    []string
	lists   int
	clears  int

	uploadFn func(f entities.LocalFile) (*entities.UploadResult, error)
	listFn   func(call int) ([]entities.Document, error)
	askFn    func(ctx context.Context, q string) (*entities.Answer, error)
	clearFn  func() error
}

func (m *mockService) Upload(ctx context.Context, f entities.LocalFile) (*entities.UploadResult, error) {
	m.mu.Lock()
	m.uploads = append(m.uploads, f.Name)
	m.mu.Unlock()
	if m.uploadFn != nil {
		return m.uploadFn(f)
	}
	return &entities.UploadResult{Filename: f.Name, ChunksCreated: 1}, nil
}

func (m *mockService) ListDocuments(ctx context.Context) ([]entities.Document, error) {
	m.mu.Lock()
	m.lists++
	call := m.lists
	m.mu.Unlock()
	if m.listFn != nil {
		return m.listFn(call)
	}
	return nil, nil
}

func (m *mockService) Ask(ctx context.Context, q string) (*entities.Answer, error) {
	m.mu.Lock()
	m.asks = append(m.asks, q)
	m.mu.Unlock()
	if m.askFn != nil {
		return m.askFn(ctx, q)
	}
	return &entities.Answer{Text: "mocked answer"}, nil
}

func (m *mockService) ClearCache(ctx context.Context) error {
	m.mu.Lock()
	m.clears++
	m.mu.Unlock()
	if m.clearFn != nil {
		return m.clearFn()
	}
	return nil
}

func (m *mockService) Health(ctx context.Context) (*entities.Health, error) {
	return &entities.Health{Status: "healthy"}, nil
}

func (m *mockService) uploadCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.uploads...)
}

func (m *mockService) listCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lists
}

func (m *mockService) askCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.asks)
}

func (m *mockService) clearCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.clears
}

// mockDialog implements ports.Dialog for testing
type mockDialog struct {
	answer  bool
	prompts []string
	alerts  []string
}

func (d *mockDialog) Confirm(ctx context.Context, prompt string) (bool, error) {
	d.prompts = append(d.prompts, prompt)
	return d.answer, nil
}

func (d *mockDialog) Alert(ctx context.Context, message string) error {
	d.alerts = append(d.alerts, message)
	return nil
}

// mockWatcher implements ports.FileWatcher for testing
type mockWatcher struct {
	events chan ports.FileEvent
}

func (w *mockWatcher) Watch(ctx context.Context, dir string) (<-chan ports.FileEvent, error) {
	return w.events, nil
}

func (w *mockWatcher) Stop() error {
	return nil
}

// eventually polls cond until it holds or the deadline passes.
func eventually(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal(msg)
}
