package usecases

import (
	"context"
	"log"
	"strings"
	"sync"

	"github.com/0xcro3dile/ragctl/internal/domain/entities"
	"github.com/0xcro3dile/ragctl/internal/domain/ports"
)

// ThinkingText is the content of the provisional assistant message.
const ThinkingText = "Thinking..."

// ChatSession drives question/answer exchanges against the service.
// Exchanges are strictly serialized: while one is awaiting its answer the
// question gate is closed and further submissions are ignored.
type ChatSession struct {
	listeners

	svc        ports.RAGService
	transcript *Transcript

	mu      sync.Mutex
	pending bool
}

// NewChatSession creates a session writing to transcript.
func NewChatSession(svc ports.RAGService, transcript *Transcript) *ChatSession {
	return &ChatSession{svc: svc, transcript: transcript}
}

// Transcript returns the session's transcript.
func (s *ChatSession) Transcript() *Transcript {
	return s.transcript
}

// Pending reports whether an exchange is awaiting its answer.
func (s *ChatSession) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// Exchange is a question that has claimed the gate and awaits its answer.
type Exchange struct {
	Question      string
	placeholderID string
}

// Submit runs one exchange and blocks until it settles.
// It returns false without side effects for a blank question or while
// another exchange is pending.
func (s *ChatSession) Submit(ctx context.Context, question string) bool {
	ex, ok := s.Begin(question)
	if !ok {
		return false
	}
	s.Complete(ctx, ex)
	return true
}

// Begin closes the gate and appends the question and its placeholder.
// It does not block on the service; the caller must pass the returned
// Exchange to Complete. It returns false without side effects for a blank
// question or while another exchange is pending.
func (s *ChatSession) Begin(question string) (Exchange, bool) {
	question = strings.TrimSpace(question)
	if question == "" {
		return Exchange{}, false
	}

	s.mu.Lock()
	if s.pending {
		s.mu.Unlock()
		return Exchange{}, false
	}
	s.pending = true
	s.mu.Unlock()
	s.notify()

	s.transcript.Append(entities.NewMessage(entities.RoleUser, question))

	placeholder := entities.NewMessage(entities.RoleAssistant, ThinkingText)
	placeholder.Placeholder = true
	s.transcript.Append(placeholder)

	return Exchange{Question: question, placeholderID: placeholder.ID}, true
}

// Complete asks the service, settles the placeholder and reopens the gate.
func (s *ChatSession) Complete(ctx context.Context, ex Exchange) {
	s.transcript.Settle(ex.placeholderID, s.answer(ctx, ex.Question))

	s.mu.Lock()
	s.pending = false
	s.mu.Unlock()
	s.notify()
}

// answer asks the service and builds the final assistant message.
func (s *ChatSession) answer(ctx context.Context, question string) entities.Message {
	ans, err := s.svc.Ask(ctx, question)
	if err != nil {
		log.Printf("[ERROR] Asking question: %v", err)
		return entities.NewMessage(entities.RoleAssistant, "Error: "+err.Error())
	}

	msg := entities.NewMessage(entities.RoleAssistant, ans.Text)
	meta := ans.Metadata
	msg.Metadata = &meta
	return msg
}
