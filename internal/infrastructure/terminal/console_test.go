package terminal

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/0xcro3dile/ragctl/internal/domain/entities"
	"github.com/0xcro3dile/ragctl/internal/domain/usecases"
)

// fakeService implements ports.RAGService for testing
type fakeService struct {
	mu      sync.Mutex
	uploads []string
	asked   []string
	askErrs []error
	clears  int

	askGate chan struct{} // When set, Ask blocks until it is closed
}

func (f *fakeService) Upload(ctx context.Context, file entities.LocalFile) (*entities.UploadResult, error) {
	f.mu.Lock()
	f.uploads = append(f.uploads, file.Name)
	f.mu.Unlock()
	return &entities.UploadResult{Filename: file.Name, ChunksCreated: 3}, nil
}

func (f *fakeService) ListDocuments(ctx context.Context) ([]entities.Document, error) {
	return []entities.Document{{Filename: "guide.pdf", FileType: "pdf"}}, nil
}

func (f *fakeService) Ask(ctx context.Context, q string) (*entities.Answer, error) {
	f.mu.Lock()
	f.asked = append(f.asked, q)
	f.mu.Unlock()

	if f.askGate != nil {
		select {
		case <-f.askGate:
		case <-ctx.Done():
			f.mu.Lock()
			f.askErrs = append(f.askErrs, ctx.Err())
			f.mu.Unlock()
			return nil, ctx.Err()
		}
	}
	return &entities.Answer{
		Text:     "The answer is 42",
		Metadata: entities.AnswerMetadata{Cached: true, Source: "redis"},
	}, nil
}

func (f *fakeService) ClearCache(ctx context.Context) error {
	f.mu.Lock()
	f.clears++
	f.mu.Unlock()
	return nil
}

func (f *fakeService) Health(ctx context.Context) (*entities.Health, error) {
	return &entities.Health{Status: "healthy", Database: "connected", Cache: "enabled"}, nil
}

func (f *fakeService) questions() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.asked...)
}

func (f *fakeService) failedAsks() []error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]error(nil), f.askErrs...)
}

func (f *fakeService) uploadCalls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.uploads...)
}

func (f *fakeService) clearCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.clears
}

// syncBuffer is a goroutine-safe bytes.Buffer
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newTestConsole(in io.Reader, svc *fakeService) (*Console, *syncBuffer, func()) {
	status := usecases.NewStatusNotifier(time.Minute)
	registry := usecases.NewDocumentRegistry(svc)
	deps := Deps{
		Service:  svc,
		Chat:     usecases.NewChatSession(svc, usecases.NewTranscript()),
		Uploads:  usecases.NewUploadPipeline(svc, status, registry, 4),
		Registry: registry,
		Status:   status,
	}
	out := &syncBuffer{}
	return NewConsole(in, out, deps), out, status.Stop
}

func waitFor(t *testing.T, out *syncBuffer, want string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if strings.Contains(out.String(), want) {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("output never contained %q:\n%s", want, out.String())
}

func TestConsole_QuestionAndAnswer(t *testing.T) {
	pr, pw := io.Pipe()
	c, out, stop := newTestConsole(pr, &fakeService{})
	defer stop()

	done := make(chan error, 1)
	go func() { done <- c.Run(context.Background()) }()

	fmt.Fprintln(pw, "what is the answer?")
	waitFor(t, out, "The answer is 42")
	fmt.Fprintln(pw, "/quit")

	if err := <-done; err != nil {
		t.Fatalf("run failed: %v", err)
	}

	text := out.String()
	if !strings.Contains(text, WelcomeText) {
		t.Error("welcome text missing")
	}
	if !strings.Contains(text, "⚡ Cached (redis)") {
		t.Error("cache badge missing")
	}
	if strings.Index(text, "what is the answer?") > strings.Index(text, "The answer is 42") {
		t.Error("question should be printed before the answer")
	}
}

func TestConsole_StartupLoadsDocuments(t *testing.T) {
	pr, pw := io.Pipe()
	c, out, stop := newTestConsole(pr, &fakeService{})
	defer stop()

	done := make(chan error, 1)
	go func() { done <- c.Run(context.Background()) }()

	waitFor(t, out, "📄 guide.pdf")
	pw.Close()
	<-done
}

func TestConsole_UploadCommand(t *testing.T) {
	svc := &fakeService{}
	pr, pw := io.Pipe()
	c, out, stop := newTestConsole(pr, svc)
	defer stop()

	done := make(chan error, 1)
	go func() { done <- c.Run(context.Background()) }()

	fmt.Fprintln(pw, "/upload /data/notes.txt")
	waitFor(t, out, "✓ notes.txt uploaded successfully! Created 3 chunks.")
	pw.Close()
	<-done
}

func TestConsole_ClearCacheDeclined(t *testing.T) {
	svc := &fakeService{}
	c, out, stop := newTestConsole(strings.NewReader("/clear-cache\nn\n"), svc)
	defer stop()

	if err := c.Run(context.Background()); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if svc.clearCalls() != 0 {
		t.Errorf("expected no call, got %d", svc.clearCalls())
	}
	if !strings.Contains(out.String(), usecases.ClearCachePrompt) {
		t.Error("confirmation prompt missing")
	}
}

func TestConsole_ClearCacheAccepted(t *testing.T) {
	svc := &fakeService{}
	c, out, stop := newTestConsole(strings.NewReader("/clear-cache\ny\n\n"), svc)
	defer stop()

	c.Run(context.Background())

	if svc.clearCalls() != 1 {
		t.Errorf("expected 1 call, got %d", svc.clearCalls())
	}
	if !strings.Contains(out.String(), "✓ Cache cleared successfully!") {
		t.Error("acknowledgement missing")
	}
}

func TestConsole_HealthAndUnknownCommand(t *testing.T) {
	c, out, stop := newTestConsole(strings.NewReader("/health\n/bogus\n/help\n"), &fakeService{})
	defer stop()

	c.Run(context.Background())

	text := out.String()
	if !strings.Contains(text, "Service: healthy | Database: connected | Cache: enabled") {
		t.Error("health output missing")
	}
	if !strings.Contains(text, "Unknown command /bogus") {
		t.Error("unknown command not reported")
	}
	if !strings.Contains(text, "/upload <path>...") {
		t.Error("help text missing")
	}
}

func TestConsole_SecondQuestionWhilePendingIgnored(t *testing.T) {
	svc := &fakeService{askGate: make(chan struct{})}
	pr, pw := io.Pipe()
	c, out, stop := newTestConsole(pr, svc)
	defer stop()

	done := make(chan error, 1)
	go func() { done <- c.Run(context.Background()) }()

	fmt.Fprint(pw, "first\nsecond\n")
	waitFor(t, out, "(still waiting for the previous answer)")

	close(svc.askGate)
	waitFor(t, out, "The answer is 42")
	fmt.Fprintln(pw, "/quit")
	if err := <-done; err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if got := svc.questions(); len(got) != 1 || got[0] != "first" {
		t.Errorf("expected only the first question asked, got %v", got)
	}
	msgs := c.deps.Chat.Transcript().Messages()
	if len(msgs) != 2 || msgs[0].Content != "first" {
		t.Errorf("expected the first exchange only, got %+v", msgs)
	}
}

func TestConsole_EndOfInputWaitsForAnswer(t *testing.T) {
	svc := &fakeService{askGate: make(chan struct{})}
	c, out, stop := newTestConsole(strings.NewReader("what is it?\n"), svc)
	defer stop()

	go func() {
		time.Sleep(50 * time.Millisecond)
		close(svc.askGate)
	}()

	if err := c.Run(context.Background()); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if errs := svc.failedAsks(); len(errs) != 0 {
		t.Errorf("pending answer was cancelled: %v", errs)
	}
	if !strings.Contains(out.String(), "The answer is 42") {
		t.Errorf("answer never printed:\n%s", out.String())
	}
}

func TestConsole_EndOfInputDrainsUploads(t *testing.T) {
	svc := &fakeService{}
	c, out, stop := newTestConsole(strings.NewReader("/upload /data/a.txt /data/b.txt\n"), svc)
	defer stop()

	if err := c.Run(context.Background()); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if got := svc.uploadCalls(); strings.Join(got, ",") != "a.txt,b.txt" {
		t.Errorf("queued uploads not processed before exit: %v", got)
	}
	if !strings.Contains(out.String(), "✓ b.txt uploaded successfully!") {
		t.Errorf("final upload status missing:\n%s", out.String())
	}
}
