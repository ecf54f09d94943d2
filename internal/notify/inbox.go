// Package notify delivers process lifecycle messages to sessions.
package notify

import (
	"context"
	"sync"
	"time"
)

const DefaultInboxSize = 100

// Message is one notification delivered to a session.
type Message struct {
	SessionID string    `json:"session_id"`
	Text      string    `json:"text"`
	At        time.Time `json:"at"`
}

// ring is a fixed-capacity buffer that evicts its oldest message when full.
type ring struct {
	items []Message
	head  int
	count int
}

func newRing(capacity int) *ring {
	return &ring{items: make([]Message, capacity)}
}

func (r *ring) add(m Message) {
	if r.count == len(r.items) {
		r.items[r.head] = m
		r.head = (r.head + 1) % len(r.items)
		return
	}
	r.items[(r.head+r.count)%len(r.items)] = m
	r.count++
}

func (r *ring) list() []Message {
	out := make([]Message, r.count)
	for i := 0; i < r.count; i++ {
		out[i] = r.items[(r.head+i)%len(r.items)]
	}
	return out
}

// Inbox keeps the most recent messages per session until a client collects
// them. It is safe for concurrent use.
type Inbox struct {
	mu       sync.Mutex
	capacity int
	sessions map[string]*ring
}

// NewInbox returns an inbox holding up to capacity messages per session.
func NewInbox(capacity int) *Inbox {
	if capacity < 1 {
		capacity = DefaultInboxSize
	}
	return &Inbox{capacity: capacity, sessions: make(map[string]*ring)}
}

// Notify stores text for sessionID.
func (in *Inbox) Notify(_ context.Context, sessionID, text string) error {
	in.mu.Lock()
	defer in.mu.Unlock()
	r, ok := in.sessions[sessionID]
	if !ok {
		r = newRing(in.capacity)
		in.sessions[sessionID] = r
	}
	r.add(Message{SessionID: sessionID, Text: text, At: time.Now().UTC()})
	return nil
}

// List returns the pending messages of a session, oldest first.
func (in *Inbox) List(sessionID string) []Message {
	in.mu.Lock()
	defer in.mu.Unlock()
	if r, ok := in.sessions[sessionID]; ok {
		return r.list()
	}
	return []Message{}
}

// Drain returns the pending messages of a session and forgets them.
func (in *Inbox) Drain(sessionID string) []Message {
	in.mu.Lock()
	defer in.mu.Unlock()
	r, ok := in.sessions[sessionID]
	if !ok {
		return []Message{}
	}
	delete(in.sessions, sessionID)
	return r.list()
}

// Forget drops everything queued for a session.
func (in *Inbox) Forget(sessionID string) {
	in.mu.Lock()
	delete(in.sessions, sessionID)
	in.mu.Unlock()
}
