package usecases

import (
	"sync"
	"time"

	"github.com/0xcro3dile/ragctl/internal/domain/entities"
)

// DefaultStatusTTL is how long success and error statuses stay visible.
const DefaultStatusTTL = 5 * time.Second

// StatusNotifier holds the single transient status line.
// Loading statuses persist until superseded; success and error auto-hide.
type StatusNotifier struct {
	listeners

	// changeMu spans a change and its notification, so subscribers never
	// observe a later change twice.
	changeMu sync.Mutex

	mu      sync.Mutex
	ttl     time.Duration
	current entities.Status
	visible bool
	gen     uint64 // Bumped on every Show; stale timers compare against it
	timer   *time.Timer
}

// NewStatusNotifier creates a notifier with the given auto-hide delay.
func NewStatusNotifier(ttl time.Duration) *StatusNotifier {
	if ttl <= 0 {
		ttl = DefaultStatusTTL
	}
	return &StatusNotifier{ttl: ttl}
}

// Show replaces the current status.
func (n *StatusNotifier) Show(kind entities.StatusKind, text string) {
	n.changeMu.Lock()
	defer n.changeMu.Unlock()

	n.mu.Lock()
	n.gen++
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
	n.current = entities.Status{Kind: kind, Text: text}
	n.visible = true
	if kind != entities.StatusLoading {
		gen := n.gen
		n.timer = time.AfterFunc(n.ttl, func() { n.expire(gen) })
	}
	n.mu.Unlock()

	n.notify()
}

// Current returns the status and whether it is still visible.
func (n *StatusNotifier) Current() (entities.Status, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current, n.visible
}

// Stop cancels any pending auto-hide.
func (n *StatusNotifier) Stop() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
}

func (n *StatusNotifier) expire(gen uint64) {
	n.changeMu.Lock()
	defer n.changeMu.Unlock()

	n.mu.Lock()
	if gen != n.gen {
		n.mu.Unlock()
		return
	}
	n.visible = false
	n.timer = nil
	n.mu.Unlock()

	n.notify()
}
