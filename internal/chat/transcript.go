// Package chat holds the assistant conversation: an append-only transcript,
// the per-session request state machine, and best-effort chat logging.
package chat

import (
	"strconv"
	"sync"
	"time"

	"github.com/pkordes/trip-planner/backend/internal/domain"
)

// Greeting is the assistant message every transcript starts with.
const Greeting = "Hi! I'm your AI Travel planner. Tell me about your dream trip and I'll create a personalized itinerary for you!"

// Transcript is an ordered, append-only list of messages. Entries are never
// removed or reordered; insertion order is display order.
type Transcript struct {
	mu      sync.RWMutex
	entries []domain.Message
	now     func() time.Time
}

// NewTranscript returns a transcript holding only the greeting, with id "1".
func NewTranscript() *Transcript {
	t := &Transcript{now: time.Now}
	t.Append(domain.Message{Role: domain.RoleAssistant, Content: Greeting})
	return t
}

// Append adds msg to the end and returns it as stored. An empty ID becomes
// the 1-based position; a zero CreatedAt becomes the current time.
func (t *Transcript) Append(msg domain.Message) domain.Message {
	t.mu.Lock()
	defer t.mu.Unlock()

	if msg.ID == "" {
		msg.ID = strconv.Itoa(len(t.entries) + 1)
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = t.now()
	}
	t.entries = append(t.entries, msg)
	return msg
}

// Count returns the number of entries, greeting included.
func (t *Transcript) Count() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

// At returns the entry at index i (0-based) and whether it exists.
func (t *Transcript) At(i int) (domain.Message, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if i < 0 || i >= len(t.entries) {
		return domain.Message{}, false
	}
	return t.entries[i], true
}

// Entries returns a copy of all entries in order.
func (t *Transcript) Entries() []domain.Message {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]domain.Message, len(t.entries))
	copy(out, t.entries)
	return out
}
