package service_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/pkordes/trip-planner/backend/internal/domain"
	"github.com/pkordes/trip-planner/backend/internal/repo"
	"github.com/pkordes/trip-planner/backend/internal/service"
)

// Hand-written test doubles: each method delegates to a function field, so a
// test sets only the ones it needs.

type mockTripRepo struct {
	create         func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	createWithDays func(ctx context.Context, trip domain.Trip, days []domain.ItineraryDay) (domain.Trip, []domain.ItineraryDay, error)
	getByID        func(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	listByOwner    func(ctx context.Context, owner uuid.UUID, p domain.PaginationParams) ([]domain.Trip, error)
}

var _ repo.TripRepo = (*mockTripRepo)(nil)

func (m *mockTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	return m.create(ctx, trip)
}
func (m *mockTripRepo) CreateWithDays(ctx context.Context, trip domain.Trip, days []domain.ItineraryDay) (domain.Trip, []domain.ItineraryDay, error) {
	return m.createWithDays(ctx, trip, days)
}
func (m *mockTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	return m.getByID(ctx, id)
}
func (m *mockTripRepo) ListByOwner(ctx context.Context, owner uuid.UUID, p domain.PaginationParams) ([]domain.Trip, error) {
	return m.listByOwner(ctx, owner, p)
}

type mockItineraryRepo struct {
	listByTrip func(ctx context.Context, tripID uuid.UUID) ([]domain.ItineraryDay, error)
	getByID    func(ctx context.Context, id uuid.UUID) (domain.ItineraryDay, error)
}

var _ repo.ItineraryRepo = (*mockItineraryRepo)(nil)

func (m *mockItineraryRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.ItineraryDay, error) {
	return m.listByTrip(ctx, tripID)
}
func (m *mockItineraryRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.ItineraryDay, error) {
	return m.getByID(ctx, id)
}

type mockStoryTeller struct {
	requestStories func(ctx context.Context, itinerary json.RawMessage) ([]domain.Story, error)
}

var _ service.StoryTeller = (*mockStoryTeller)(nil)

func (m *mockStoryTeller) RequestStories(ctx context.Context, itinerary json.RawMessage) ([]domain.Story, error) {
	return m.requestStories(ctx, itinerary)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func ptr[T any](v T) *T { return &v }
