// Package terminal provides the interactive console.
// It is the outermost layer: it turns input lines into controller calls and
// prints each view slice whenever its owner reports a change.
package terminal

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"
	"sync"

	"github.com/0xcro3dile/ragctl/internal/domain/entities"
	"github.com/0xcro3dile/ragctl/internal/domain/ports"
	"github.com/0xcro3dile/ragctl/internal/domain/usecases"
)

const helpText = `Commands:
  /upload <path>...   upload one or more files
  /docs               show the document list
  /clear-cache        clear the service's answer cache
  /health             show service health
  /help               show this help
  /quit               exit
Anything else is sent as a question.`

// Deps are the controllers the console drives.
type Deps struct {
	Service  ports.RAGService
	Chat     *usecases.ChatSession
	Uploads  *usecases.UploadPipeline
	Registry *usecases.DocumentRegistry
	Status   *usecases.StatusNotifier
}

// Console is a line-oriented chat UI. It also implements ports.Dialog, reading
// confirmations from the same input stream.
type Console struct {
	deps  Deps
	cache *usecases.CacheControl
	in    io.Reader
	lines chan string

	exchanges sync.WaitGroup // Answers still being awaited

	outMu   sync.Mutex
	out     io.Writer
	printed map[string]bool // Message IDs already written
}

// NewConsole creates a console reading from in and writing to out.
func NewConsole(in io.Reader, out io.Writer, deps Deps) *Console {
	c := &Console{
		deps:    deps,
		in:      in,
		out:     out,
		lines:   make(chan string),
		printed: make(map[string]bool),
	}
	c.cache = usecases.NewCacheControl(deps.Service, c)
	return c
}

// Run shows the welcome screen, loads the document list and serves input
// until /quit, end of input, or ctx cancellation. At end of input it first
// waits for the pending answer and any queued uploads.
func (c *Console) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	c.subscribe()
	go c.readLines(ctx)
	go c.deps.Uploads.Run(ctx)

	c.println(WelcomeText)
	c.println("Type /help for commands.")
	go c.deps.Registry.Refresh(ctx)

	for {
		line, ok := c.next(ctx)
		if !ok {
			if ctx.Err() == nil {
				c.finish(ctx)
			}
			return ctx.Err()
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if quit := c.handle(ctx, line); quit {
			return nil
		}
	}
}

// handle dispatches one input line and reports whether to exit.
func (c *Console) handle(ctx context.Context, line string) bool {
	if !strings.HasPrefix(line, "/") {
		c.ask(ctx, line)
		return false
	}

	fields := strings.Fields(line)
	switch fields[0] {
	case "/quit", "/exit":
		return true
	case "/help":
		c.println(helpText)
	case "/upload":
		c.upload(ctx, fields[1:])
	case "/docs":
		c.print(FormatDocuments(c.deps.Registry.Snapshot()))
	case "/clear-cache":
		if _, err := c.cache.Clear(ctx); err != nil && ctx.Err() != nil {
			return true
		}
	case "/health":
		c.health(ctx)
	default:
		c.println("Unknown command " + fields[0] + ". Type /help for commands.")
	}
	return false
}

// ask claims the question gate on the input goroutine, then awaits the
// answer in the background.
func (c *Console) ask(ctx context.Context, question string) {
	ex, ok := c.deps.Chat.Begin(question)
	if !ok {
		c.println("(still waiting for the previous answer)")
		return
	}
	c.exchanges.Add(1)
	go func() {
		defer c.exchanges.Done()
		c.deps.Chat.Complete(ctx, ex)
	}()
}

// finish lets in-flight work settle once input has ended.
func (c *Console) finish(ctx context.Context) {
	c.exchanges.Wait()
	if err := c.deps.Uploads.Drain(ctx); err != nil {
		log.Printf("[WARN] Uploads still queued at exit: %v", err)
	}
}

func (c *Console) upload(ctx context.Context, paths []string) {
	if len(paths) == 0 {
		return
	}
	files := make([]entities.LocalFile, len(paths))
	for i, p := range paths {
		files[i] = entities.LocalFile{Name: filepath.Base(p), Path: p}
	}
	if err := c.deps.Uploads.Enqueue(ctx, files); err != nil {
		c.println("Upload cancelled: " + err.Error())
	}
}

func (c *Console) health(ctx context.Context) {
	h, err := c.deps.Service.Health(ctx)
	if err != nil {
		c.println("✗ Health check failed: " + err.Error())
		return
	}
	c.println(fmt.Sprintf("Service: %s | Database: %s | Cache: %s", h.Status, h.Database, h.Cache))
}

// Confirm implements ports.Dialog.
func (c *Console) Confirm(ctx context.Context, prompt string) (bool, error) {
	c.print(prompt + " [y/N] ")
	line, ok := c.next(ctx)
	if !ok {
		return false, ctx.Err()
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

// Alert implements ports.Dialog.
func (c *Console) Alert(ctx context.Context, message string) error {
	c.println(message)
	c.print("Press Enter to continue ")
	if _, ok := c.next(ctx); !ok {
		return ctx.Err()
	}
	return nil
}

// subscribe wires each view slice to its renderer.
func (c *Console) subscribe() {
	c.deps.Chat.Transcript().Subscribe(c.renderTranscript)
	c.deps.Chat.Subscribe(func() {
		if !c.deps.Chat.Pending() {
			c.print("> ")
		}
	})
	c.deps.Status.Subscribe(func() {
		if line := FormatStatus(c.deps.Status.Current()); line != "" {
			c.println(line)
		}
	})
	c.deps.Registry.Subscribe(func() {
		c.println("── Documents ──")
		c.print(FormatDocuments(c.deps.Registry.Snapshot()))
	})
}

// renderTranscript writes messages not yet shown, in transcript order.
func (c *Console) renderTranscript() {
	msgs := c.deps.Chat.Transcript().Messages()

	c.outMu.Lock()
	defer c.outMu.Unlock()
	for _, m := range msgs {
		if c.printed[m.ID] {
			continue
		}
		c.printed[m.ID] = true
		fmt.Fprintln(c.out)
		fmt.Fprint(c.out, FormatMessage(m))
	}
}

// readLines pumps input lines into c.lines and closes it at end of input.
func (c *Console) readLines(ctx context.Context) {
	defer close(c.lines)
	scanner := bufio.NewScanner(c.in)
	for scanner.Scan() {
		select {
		case c.lines <- scanner.Text():
		case <-ctx.Done():
			return
		}
	}
}

func (c *Console) next(ctx context.Context) (string, bool) {
	select {
	case line, ok := <-c.lines:
		return line, ok
	case <-ctx.Done():
		return "", false
	}
}

func (c *Console) print(s string) {
	c.outMu.Lock()
	defer c.outMu.Unlock()
	fmt.Fprint(c.out, s)
}

func (c *Console) println(s string) {
	c.print(s + "\n")
}
