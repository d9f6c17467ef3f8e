// Package ragapi provides the HTTP adapter for the question-answering service.
// It implements ports.RAGService over the service's JSON contract.
package ragapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/0xcro3dile/ragctl/internal/domain/entities"
)

const (
	defaultBaseURL = "http://localhost:5000"
	defaultTimeout = 2 * time.Minute
)

// Client implements ports.RAGService using the service's HTTP API.
type Client struct {
	baseURL string
	timeout time.Duration
	client  *http.Client
	debug   bool
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// WithDebug enables request logging.
func WithDebug(debug bool) Option {
	return func(c *Client) { c.debug = debug }
}

// NewClient creates a new service client.
// The timeout bounds every request; zero selects the default.
func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		client:  &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// uploadResponse is the /api/upload success body.
type uploadResponse struct {
	Message       string `json:"message"`
	DocumentID    int64  `json:"document_id"`
	Filename      string `json:"filename"`
	ChunksCreated int    `json:"chunks_created"`
}

// documentsResponse is the /api/documents success body.
type documentsResponse struct {
	Documents []struct {
		Filename  string `json:"filename"`
		FileType  string `json:"file_type"`
		CreatedAt string `json:"created_at"`
	} `json:"documents"`
}

// askRequest is the /api/ask request body.
type askRequest struct {
	Question string `json:"question"`
}

// askResponse is the /api/ask success body.
type askResponse struct {
	Answer  string `json:"answer"`
	Context string `json:"context"`
	Cached  bool   `json:"cached"`
	Source  string `json:"source"`
	Sources []struct {
		Filename   string  `json:"filename"`
		Similarity float64 `json:"similarity"`
	} `json:"sources"`
}

// healthResponse is the /api/health success body.
type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Cache    string `json:"cache"`
}

// Upload sends one file as a multipart body with a single "file" field.
func (c *Client) Upload(ctx context.Context, file entities.LocalFile) (*entities.UploadResult, error) {
	const op = "upload"

	body, contentType, err := multipartBody(file)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}

	var resp uploadResponse
	if err := c.call(ctx, op, http.MethodPost, "/api/upload", contentType, body, &resp); err != nil {
		return nil, err
	}

	return &entities.UploadResult{
		DocumentID:    resp.DocumentID,
		Filename:      resp.Filename,
		ChunksCreated: resp.ChunksCreated,
		Message:       resp.Message,
	}, nil
}

// ListDocuments fetches every ingested document in service order.
func (c *Client) ListDocuments(ctx context.Context) ([]entities.Document, error) {
	var resp documentsResponse
	if err := c.call(ctx, "list documents", http.MethodGet, "/api/documents", "", nil, &resp); err != nil {
		return nil, err
	}

	docs := make([]entities.Document, 0, len(resp.Documents))
	for _, d := range resp.Documents {
		docs = append(docs, entities.Document{
			Filename:  d.Filename,
			FileType:  d.FileType,
			CreatedAt: parseTimestamp(d.CreatedAt),
		})
	}
	return docs, nil
}

// Ask submits a question.
func (c *Client) Ask(ctx context.Context, question string) (*entities.Answer, error) {
	const op = "ask"

	jsonData, err := json.Marshal(askRequest{Question: question})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	var resp askResponse
	if err := c.call(ctx, op, http.MethodPost, "/api/ask", "application/json", jsonData, &resp); err != nil {
		return nil, err
	}

	answer := &entities.Answer{
		Text:    resp.Answer,
		Context: resp.Context,
		Metadata: entities.AnswerMetadata{
			Cached: resp.Cached,
			Source: resp.Source,
		},
	}
	for _, s := range resp.Sources {
		answer.Metadata.Sources = append(answer.Metadata.Sources, entities.SourceRef{
			Filename:   s.Filename,
			Similarity: s.Similarity,
		})
	}
	return answer, nil
}

// ClearCache asks the service to drop all cached answers.
func (c *Client) ClearCache(ctx context.Context) error {
	return c.call(ctx, "clear cache", http.MethodPost, "/api/clear-cache", "", nil, nil)
}

// Health fetches the service health report.
func (c *Client) Health(ctx context.Context) (*entities.Health, error) {
	var resp healthResponse
	if err := c.call(ctx, "health", http.MethodGet, "/api/health", "", nil, &resp); err != nil {
		return nil, err
	}
	return &entities.Health{Status: resp.Status, Database: resp.Database, Cache: resp.Cache}, nil
}

// call performs one request under the client deadline.
// A nil out skips decoding of the success body.
func (c *Client) call(ctx context.Context, op, method, path, contentType string, body []byte, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	if c.debug {
		log.Printf("[DEBUG] %s %s", method, req.URL)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return c.transportError(ctx, op, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.transportError(ctx, op, err)
	}

	if c.debug {
		log.Printf("[DEBUG] %s responded with status %d", op, resp.StatusCode)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(op, resp.StatusCode, data)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("decoding response: %w", err)}
	}
	return nil
}

// transportError classifies a failed round trip.
func (c *Client) transportError(ctx context.Context, op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &TimeoutError{Op: op, Timeout: c.timeout}
	}
	return &TransportError{Op: op, Err: err}
}

// multipartBody encodes a file as a single-field multipart form.
func multipartBody(file entities.LocalFile) ([]byte, string, error) {
	f, err := os.Open(file.Path)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	name := file.Name
	if name == "" {
		name = filepath.Base(file.Path)
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", name)
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, "", fmt.Errorf("reading %s: %w", name, err)
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

// timestampLayouts covers what the service emits for created_at.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC1123,
	time.RFC1123Z,
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05.999999",
	"2006-01-02 15:04:05",
}

// parseTimestamp returns the zero time for unparseable input.
func parseTimestamp(s string) time.Time {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
