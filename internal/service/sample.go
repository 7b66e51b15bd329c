package service

import (
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/trip-planner/backend/internal/domain"
)

// SampleTripID identifies the demo trip shown when a requested trip cannot
// be loaded.
var SampleTripID = uuid.MustParse("00000000-0000-4000-8000-000000000001")

var sampleDayID = uuid.MustParse("00000000-0000-4000-8000-000000000101")

func ptr[T any](v T) *T { return &v }

// sampleDetail is the fixed "Gujarat Heritage Tour" demo itinerary.
func sampleDetail() TripDetail {
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	return TripDetail{
		Trip: domain.Trip{
			ID:           SampleTripID,
			Title:        "Gujarat Heritage Tour",
			Destination:  "Gujarat",
			DurationDays: 7,
			Budget:       22000,
			Status:       domain.TripStatusPlanning,
			CreatedAt:    created,
			UpdatedAt:    created,
		},
		Days: []domain.ItineraryDay{{
			ID:        sampleDayID,
			TripID:    SampleTripID,
			DayNumber: 1,
			CreatedAt: created,
			Activities: []domain.Activity{
				{
					Time:        "09:00",
					Title:       "Arrival at Dwarkadhish",
					Description: "Arrive at Dwarka and check into your accommodation.",
					Location:    "Dwarka International Airport",
					Cost:        ptr(2600.0),
					Type:        domain.ActivityMorning,
				},
				{
					Time:        "14:00",
					Title:       "Visit Dwarkadhish Temple",
					Description: "Explore the temple and the view of Arabian Sea.",
					Location:    "Dwarkadhish Temple",
					Cost:        ptr(500.0),
					Type:        domain.ActivityAfternoon,
				},
			},
		}},
		Sample: true,
	}
}

// sampleActivities backs the activity view when the requested day is missing.
func sampleActivities() []domain.Activity {
	return []domain.Activity{
		{
			Time:        "14:00",
			Title:       "Kamakhya Mandir",
			Description: "Visit one of the oldest Shakti Peethas, perched on Nilachal Hill.",
			Location:    "Nilachal Hill, Guwahati",
			Cost:        ptr(500.0),
			Type:        domain.ActivityAfternoon,
		},
		{
			Time:        "17:00",
			Title:       "Sunset at Brahmaputra",
			Description: "Watch the sun go down over the river from the riverfront promenade.",
			Location:    "Brahmaputra Riverfront",
			Cost:        ptr(800.0),
			Type:        domain.ActivityEvening,
		},
		{
			Time:        "19:30",
			Title:       "Traditional Assamese Dinner",
			Description: "Try a thali with local fish curry and pitha.",
			Location:    "Paradise Restaurant",
			Cost:        ptr(600.0),
			Type:        domain.ActivityEvening,
		},
	}
}

func sampleStories() []domain.Story {
	return []domain.Story{{
		ID:          "1",
		Title:       "Dwarkadhish Temple",
		Description: "A spiritual journey at the ancient temple.",
		Location:    "Dwarka, Gujarat",
	}}
}
