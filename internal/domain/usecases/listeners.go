// Package usecases contains the interaction controllers.
// Each controller owns one slice of view state and publishes changes to
// subscribers, who read it back through snapshot accessors.
package usecases

import "sync"

// listeners is a set of change callbacks.
// Callbacks run on the goroutine that made the change, after the state lock is released.
type listeners struct {
	mu  sync.Mutex
	fns []func()
}

// Subscribe registers fn to be called after every state change.
func (l *listeners) Subscribe(fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.fns = append(l.fns, fn)
}

func (l *listeners) notify() {
	l.mu.Lock()
	fns := make([]func(), len(l.fns))
	copy(fns, l.fns)
	l.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
