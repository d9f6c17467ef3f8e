// Package entities contains core business entities.
// These are plain domain objects with no knowledge of transport or rendering.
package entities

import (
	"time"

	"github.com/google/uuid"
)

// Role identifies who authored a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// SourceRef is a passage the service cites as evidence for an answer.
type SourceRef struct {
	Filename   string
	Similarity float64 // In [0,1]
}

// AnswerMetadata carries cache and source information for an assistant reply.
type AnswerMetadata struct {
	Cached  bool
	Source  string // Cache tier that served the answer, e.g. "redis"
	Sources []SourceRef
}

// Message is one entry in the chat transcript.
// Messages are immutable once appended; ordering is insertion order only.
type Message struct {
	ID          string
	Role        Role
	Content     string
	Metadata    *AnswerMetadata // Assistant replies only
	Placeholder bool
	CreatedAt   time.Time // Display only
}

// NewMessage creates a message with a fresh identifier.
func NewMessage(role Role, content string) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		CreatedAt: time.Now(),
	}
}

// Document is the service's view of an ingested file.
type Document struct {
	Filename  string
	FileType  string
	CreatedAt time.Time
}

// LocalFile is a file on disk selected for upload.
type LocalFile struct {
	Name string
	Path string
}

// UploadResult is what the service reports after ingesting a file.
type UploadResult struct {
	DocumentID    int64
	Filename      string
	ChunksCreated int
	Message       string
}

// UploadOutcome is the result of one upload attempt: either Result or Err is set.
type UploadOutcome struct {
	File   LocalFile
	Result *UploadResult
	Err    error
}

// OK reports whether the upload succeeded.
func (o UploadOutcome) OK() bool {
	return o.Err == nil && o.Result != nil
}

// Answer is the service's reply to a question.
type Answer struct {
	Text     string
	Context  string
	Metadata AnswerMetadata
}

// StatusKind tags the status line.
type StatusKind string

const (
	StatusLoading StatusKind = "loading"
	StatusSuccess StatusKind = "success"
	StatusError   StatusKind = "error"
)

// Status is the single transient line describing the latest upload action.
type Status struct {
	Kind StatusKind
	Text string
}

// Health is the service's self-reported state.
type Health struct {
	Status   string
	Database string
	Cache    string
}
