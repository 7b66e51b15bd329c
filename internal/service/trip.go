// Package service contains the business logic for the trip planner.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// No SQL lives here; services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/pkordes/trip-planner/backend/internal/domain"
	"github.com/pkordes/trip-planner/backend/internal/planner"
	"github.com/pkordes/trip-planner/backend/internal/repo"
)

// DefaultItineraryTitle names a saved itinerary whose payload has no title.
const DefaultItineraryTitle = "My AI Trip"

// StoryTeller turns an itinerary into illustrated places.
type StoryTeller interface {
	RequestStories(ctx context.Context, itinerary json.RawMessage) ([]domain.Story, error)
}

// TripDetail is a trip together with its days in display order.
// Sample is set when the demo trip was substituted for the requested one.
type TripDetail struct {
	Trip   domain.Trip           `json:"trip"`
	Days   []domain.ItineraryDay `json:"days"`
	Sample bool                  `json:"sample"`
}

// TotalCost sums every activity cost in the itinerary.
func (d TripDetail) TotalCost() float64 {
	return lo.SumBy(d.Days, func(day domain.ItineraryDay) float64 {
		return lo.SumBy(day.Activities, func(a domain.Activity) float64 {
			return lo.FromPtr(a.Cost)
		})
	})
}

// ActivityView is one activity of a day with its neighbours' positions.
// Prev and Next are nil at the ends of the day.
type ActivityView struct {
	DayID      uuid.UUID         `json:"day_id"`
	DayNumber  int               `json:"day_number"`
	Index      int               `json:"index"`
	Total      int               `json:"total"`
	Activity   domain.Activity   `json:"activity"`
	Icon       string            `json:"icon"`
	Prev       *int              `json:"prev,omitempty"`
	Next       *int              `json:"next,omitempty"`
	Activities []domain.Activity `json:"-"`
	Sample     bool              `json:"sample"`
}

// TripService implements the read views over trips and itineraries and the
// saving of generated itineraries.
type TripService struct {
	trips   repo.TripRepo
	days    repo.ItineraryRepo
	stories StoryTeller
	log     *slog.Logger
}

// NewTripService constructs a TripService.
func NewTripService(trips repo.TripRepo, days repo.ItineraryRepo, stories StoryTeller, log *slog.Logger) *TripService {
	return &TripService{trips: trips, days: days, stories: stories, log: log.With("service", "trip")}
}

// Detail loads a trip and its days. If either cannot be read, for any
// reason, the sample trip is returned instead; Detail never fails.
func (s *TripService) Detail(ctx context.Context, id uuid.UUID) TripDetail {
	var (
		trip domain.Trip
		days []domain.ItineraryDay
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		trip, err = s.trips.GetByID(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		days, err = s.days.ListByTrip(gctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.log.InfoContext(ctx, "trip not found, showing sample", "trip_id", id)
		} else {
			s.log.WarnContext(ctx, "load trip failed, showing sample", "trip_id", id, "error", err)
		}
		return sampleDetail()
	}
	return TripDetail{Trip: trip, Days: days}
}

// Recent returns a page of the owner's trips, newest first. Read failures
// are logged and yield an empty list.
func (s *TripService) Recent(ctx context.Context, ownerID uuid.UUID, p domain.PaginationParams) []domain.Trip {
	trips, err := s.trips.ListByOwner(ctx, ownerID, p)
	if err != nil {
		s.log.WarnContext(ctx, "list trips failed", "user_id", ownerID, "error", err)
		return []domain.Trip{}
	}
	return trips
}

// Day returns an itinerary day. A day that cannot be read is replaced by a
// first day holding the sample activities, and sample is true.
func (s *TripService) Day(ctx context.Context, dayID uuid.UUID) (day domain.ItineraryDay, sample bool) {
	day, err := s.days.GetByID(ctx, dayID)
	if err != nil {
		s.log.InfoContext(ctx, "itinerary day unavailable, showing sample", "day_id", dayID, "error", err)
		return domain.ItineraryDay{ID: dayID, DayNumber: 1, Activities: sampleActivities()}, true
	}
	return day, false
}

// Activity returns the activity at index (0-based) of the given day, which
// falls back to the sample like Day. An index outside the day returns
// domain.ErrNotFound.
func (s *TripService) Activity(ctx context.Context, dayID uuid.UUID, index int) (ActivityView, error) {
	day, sample := s.Day(ctx, dayID)
	view := ActivityView{
		DayID:      dayID,
		DayNumber:  day.DayNumber,
		Activities: day.Activities,
		Sample:     sample,
	}

	view.Total = len(view.Activities)
	if index < 0 || index >= view.Total {
		return ActivityView{}, fmt.Errorf("service.TripService.Activity: %w: activity %d of %d", domain.ErrNotFound, index, view.Total)
	}
	view.Index = index
	view.Activity = view.Activities[index]
	view.Icon = view.Activity.Type.Icon()
	if index > 0 {
		view.Prev = ptr(index - 1)
	}
	if index < view.Total-1 {
		view.Next = ptr(index + 1)
	}
	return view, nil
}

// SaveItinerary stores a final itinerary payload as a new trip owned by
// ownerID. The payload must contain at least one day; it is kept verbatim
// on the trip as Source.
func (s *TripService) SaveItinerary(ctx context.Context, ownerID uuid.UUID, payload json.RawMessage) (TripDetail, error) {
	if ownerID == uuid.Nil {
		return TripDetail{}, fmt.Errorf("service.TripService.SaveItinerary: %w", domain.ErrUnauthorized)
	}

	it, err := planner.ParseItinerary(payload)
	if err != nil {
		return TripDetail{}, fmt.Errorf("service.TripService.SaveItinerary: %w", err)
	}

	trip := domain.Trip{
		UserID:       ownerID,
		Title:        lo.Ternary(strings.TrimSpace(it.Title) != "", strings.TrimSpace(it.Title), DefaultItineraryTitle),
		Destination:  it.Destination,
		DurationDays: len(it.Days),
		Status:       domain.TripStatusPlanning,
		Preferences:  map[string]any{"origin": "assistant"},
		Source:       payload,
	}
	if it.Budget != nil {
		trip.Budget = *it.Budget
	} else {
		trip.Budget = lo.SumBy(it.Days, func(d domain.ItineraryDay) float64 { return lo.FromPtr(d.DailyBudget) })
	}

	saved, days, err := s.trips.CreateWithDays(ctx, trip, it.Days)
	if err != nil {
		return TripDetail{}, fmt.Errorf("service.TripService.SaveItinerary: %w", err)
	}
	s.log.InfoContext(ctx, "itinerary saved", "trip_id", saved.ID, "user_id", ownerID, "days", len(days))
	return TripDetail{Trip: saved, Days: days}, nil
}

// Stories asks the itinerary service for visual stories about a trip. The
// second result reports whether the sample stories were used instead.
func (s *TripService) Stories(ctx context.Context, tripID uuid.UUID) ([]domain.Story, bool) {
	detail := s.Detail(ctx, tripID)
	if detail.Sample {
		return sampleStories(), true
	}

	payload := detail.Trip.Source
	if len(payload) == 0 {
		b, err := json.Marshal(map[string]any{"title": detail.Trip.Title, "days": detail.Days})
		if err != nil {
			s.log.WarnContext(ctx, "encode itinerary for stories", "trip_id", tripID, "error", err)
			return sampleStories(), true
		}
		payload = b
	}

	stories, err := s.stories.RequestStories(ctx, payload)
	if err != nil || len(stories) == 0 {
		s.log.WarnContext(ctx, "stories unavailable, showing sample", "trip_id", tripID, "error", err)
		return sampleStories(), true
	}
	return stories, false
}
