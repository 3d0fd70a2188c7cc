// Package sse fans live events out to the browser sessions of a user.
package sse

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
)

// bufferSize bounds how far a slow client may fall behind before events are dropped.
const bufferSize = 16

// Event is one server-sent event addressed to a user.
type Event struct {
	ID     string
	Name   string
	UserID string
	Data   any
}

// Write encodes the event in text/event-stream framing.
func (e Event) Write(w io.Writer) error {
	data, err := json.Marshal(e.Data)
	if err != nil {
		return fmt.Errorf("failed to encode event data: %w", err)
	}
	if e.ID != "" {
		if _, err := fmt.Fprintf(w, "id: %s\n", e.ID); err != nil {
			return err
		}
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", e.Name, data)
	return err
}

// Hub tracks open streams per user.
type Hub struct {
	mu      sync.RWMutex
	streams map[string]map[chan Event]struct{}
	dropped atomic.Uint64
}

func NewHub() *Hub {
	return &Hub{streams: make(map[string]map[chan Event]struct{})}
}

// Subscribe opens a stream for userID. The returned func must be called exactly once
// when the client goes away; it closes the channel.
func (h *Hub) Subscribe(userID string) (<-chan Event, func()) {
	ch := make(chan Event, bufferSize)

	h.mu.Lock()
	if h.streams[userID] == nil {
		h.streams[userID] = make(map[chan Event]struct{})
	}
	h.streams[userID][ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.streams[userID], ch)
			if len(h.streams[userID]) == 0 {
				delete(h.streams, userID)
			}
			close(ch)
		})
	}
}

// Publish delivers ev to every stream of ev.UserID and reports how many received it.
// Full streams are skipped.
func (h *Hub) Publish(ev Event) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for ch := range h.streams[ev.UserID] {
		select {
		case ch <- ev:
			delivered++
		default:
			h.dropped.Add(1)
		}
	}
	return delivered
}

// Connected reports whether userID has at least one open stream.
func (h *Hub) Connected(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.streams[userID]) > 0
}

// Dropped counts events skipped because a stream buffer was full.
func (h *Hub) Dropped() uint64 {
	return h.dropped.Load()
}

// Streams returns the number of open streams across all users.
func (h *Hub) Streams() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	total := 0
	for _, s := range h.streams {
		total += len(s)
	}
	return total
}
