// Package domain contains the core data types for the trip planner.
// This package has no dependencies on other internal packages and is
// imported by every other internal package (repo, service, handler).
package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// TripStatus is the lifecycle stage of a trip.
type TripStatus string

const (
	TripStatusPlanning  TripStatus = "planning"
	TripStatusConfirmed TripStatus = "confirmed"
	TripStatusCompleted TripStatus = "completed"
)

// OrDefault returns s, or TripStatusPlanning when s is unset or unknown.
func (s TripStatus) OrDefault() TripStatus {
	switch s {
	case TripStatusPlanning, TripStatusConfirmed, TripStatusCompleted:
		return s
	default:
		return TripStatusPlanning
	}
}

// Trip is a planned journey owned by a single user.
// A trip is the top-level aggregate; itinerary days belong to a trip.
type Trip struct {
	ID           uuid.UUID      `json:"id"`
	UserID       uuid.UUID      `json:"user_id"`
	Title        string         `json:"title"`
	Destination  string         `json:"destination"`
	DurationDays int            `json:"duration_days"`
	Budget       float64        `json:"budget"`
	Status       TripStatus     `json:"status"`
	StartDate    *time.Time     `json:"start_date,omitempty"`
	EndDate      *time.Time     `json:"end_date,omitempty"`
	Preferences  map[string]any `json:"preferences,omitempty"`
	// Source is the generated itinerary payload exactly as the planner
	// returned it. Empty for trips not created from a chat session.
	Source    json.RawMessage `json:"source,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
