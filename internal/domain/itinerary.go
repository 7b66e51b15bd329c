package domain

import (
	"time"

	"github.com/google/uuid"
)

// ActivityType is the part of the day an activity falls in.
// It only selects a display icon; nothing orders activities by it.
type ActivityType string

const (
	ActivityMorning   ActivityType = "morning"
	ActivityAfternoon ActivityType = "afternoon"
	ActivityEvening   ActivityType = "evening"
	ActivityNight     ActivityType = "night"
)

// Icon returns the name of the icon a client should render for t.
func (t ActivityType) Icon() string {
	switch t {
	case ActivityMorning:
		return "sun"
	case ActivityAfternoon:
		return "coffee"
	case ActivityEvening, ActivityNight:
		return "moon"
	default:
		return "map-pin"
	}
}

// Activity is one entry in a day's plan. Time is a free-text label
// ("09:00", "after lunch") and is never parsed for ordering.
type Activity struct {
	Time        string       `json:"time"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Location    string       `json:"location"`
	Cost        *float64     `json:"cost,omitempty"`
	Type        ActivityType `json:"type"`
}

// ItineraryDay is a single day of a trip. Days are displayed in ascending
// DayNumber order; numbers need not be contiguous. Activities render in
// the order they are stored.
type ItineraryDay struct {
	ID          uuid.UUID  `json:"id"`
	TripID      uuid.UUID  `json:"trip_id"`
	DayNumber   int        `json:"day_number"`
	Date        *time.Time `json:"date,omitempty"`
	DailyBudget *float64   `json:"daily_budget,omitempty"`
	Activities  []Activity `json:"activities"`
	CreatedAt   time.Time  `json:"created_at"`
}
