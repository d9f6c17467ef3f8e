package usecases

import (
	"sync"

	"github.com/0xcro3dile/ragctl/internal/domain/entities"
)

// Transcript is the append-ordered list of chat messages.
// It starts out showing a welcome placeholder that the first append replaces.
type Transcript struct {
	listeners

	mu       sync.Mutex
	messages []entities.Message
	welcome  bool
}

// NewTranscript creates an empty transcript showing the welcome placeholder.
func NewTranscript() *Transcript {
	return &Transcript{welcome: true}
}

// Append adds a message at the end.
func (t *Transcript) Append(msg entities.Message) {
	t.mu.Lock()
	t.welcome = false
	t.messages = append(t.messages, msg)
	t.mu.Unlock()

	t.notify()
}

// Settle removes the provisional message and appends its replacement in one step.
// Subscribers never observe the transcript with both or neither present.
func (t *Transcript) Settle(provisionalID string, final entities.Message) {
	t.mu.Lock()
	for i, m := range t.messages {
		if m.ID == provisionalID {
			t.messages = append(t.messages[:i], t.messages[i+1:]...)
			break
		}
	}
	t.welcome = false
	t.messages = append(t.messages, final)
	t.mu.Unlock()

	t.notify()
}

// Messages returns a copy of the transcript in insertion order.
func (t *Transcript) Messages() []entities.Message {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]entities.Message, len(t.messages))
	copy(out, t.messages)
	return out
}

// Len returns the number of messages.
func (t *Transcript) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.messages)
}

// ShowsWelcome reports whether the welcome placeholder is still displayed.
func (t *Transcript) ShowsWelcome() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.welcome
}
