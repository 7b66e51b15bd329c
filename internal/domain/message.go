package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Role identifies who authored a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry of a chat transcript. Messages are immutable once
// appended.
type Message struct {
	ID      string `json:"id"`
	Role    Role   `json:"role"`
	Content string `json:"content"`
	// IsFinal marks the assistant reply that carries a finished itinerary.
	IsFinal   bool            `json:"is_final,omitempty"`
	Itinerary json.RawMessage `json:"itinerary,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// ChatLogEntry is the persisted form of one side of a chat exchange.
type ChatLogEntry struct {
	UserID    uuid.UUID
	SessionID uuid.UUID
	Role      Role
	Content   string
	CreatedAt time.Time
}

// Story is a short narrative card generated for a place on the itinerary.
type Story struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Location    string `json:"location,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
}
