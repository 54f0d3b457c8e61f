// Package notifier fans out change pings to SSE listeners.
package notifier

import (
	"context"
	"sync"
)

// Notifier broadcasts update signals to all subscribed listeners. Listeners
// receive an empty struct when the workbench changed and should re-render
// from current state.
type Notifier struct {
	mu        sync.RWMutex
	listeners map[chan struct{}]struct{}
}

// New creates a Notifier.
func New() *Notifier {
	return &Notifier{listeners: make(map[chan struct{}]struct{})}
}

// Subscribe registers a listener bound to ctx: when ctx ends the listener
// is removed and its channel closed, so SSE handlers need no explicit
// unsubscribe.
func (n *Notifier) Subscribe(ctx context.Context) <-chan struct{} {
	ch := make(chan struct{}, 1)
	n.mu.Lock()
	n.listeners[ch] = struct{}{}
	n.mu.Unlock()

	go func() {
		<-ctx.Done()
		n.mu.Lock()
		delete(n.listeners, ch)
		n.mu.Unlock()
		close(ch)
	}()

	return ch
}

// Broadcast pings every listener. Non-blocking: a listener with a pending
// ping is skipped and catches up on its next read.
func (n *Notifier) Broadcast() {
	n.mu.RLock()
	defer n.mu.RUnlock()

	for ch := range n.listeners {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Len returns the number of subscribed listeners.
func (n *Notifier) Len() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.listeners)
}
