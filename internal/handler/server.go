// Package handler implements the HTTP handlers for the trip planner API.
// All handlers are methods on Server. They are split into domain-specific
// files (auth.go, chat.go, trip.go, export.go) but share the Server struct
// so they can access its dependencies. NewRouter mounts them on chi.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"

	"github.com/pkordes/trip-planner/backend/internal/auth"
	"github.com/pkordes/trip-planner/backend/internal/chat"
	"github.com/pkordes/trip-planner/backend/internal/domain"
	"github.com/pkordes/trip-planner/backend/internal/service"
)

// AuthServicer is the sign-in surface the handlers depend on. Defining it
// here (in the consumer package) lets handler tests inject a mock.
type AuthServicer interface {
	Authenticate(ctx context.Context, token string) (uuid.UUID, error)
	SignUp(ctx context.Context, email, password, displayName string) (auth.Session, error)
	SignIn(ctx context.Context, email, password string) (auth.Session, error)
	SignOut(ctx context.Context, userID uuid.UUID) error
	Current(userID uuid.UUID) auth.State
}

// ChatSessions creates and finds chat sessions.
type ChatSessions interface {
	Create(owner uuid.UUID) *chat.Session
	Get(id uuid.UUID) (*chat.Session, bool)
}

// TripServicer is the trip and itinerary views.
type TripServicer interface {
	Detail(ctx context.Context, id uuid.UUID) service.TripDetail
	Recent(ctx context.Context, ownerID uuid.UUID, p domain.PaginationParams) []domain.Trip
	Activity(ctx context.Context, dayID uuid.UUID, index int) (service.ActivityView, error)
	SaveItinerary(ctx context.Context, ownerID uuid.UUID, payload json.RawMessage) (service.TripDetail, error)
	Stories(ctx context.Context, tripID uuid.UUID) ([]domain.Story, bool)
}

// ExportServicer builds the tables behind the document downloads.
type ExportServicer interface {
	TripItinerary(ctx context.Context, tripID uuid.UUID) (domain.Table, service.TripDetail)
	DayActivities(ctx context.Context, dayID uuid.UUID) (domain.Table, bool)
}

// Deps are the Server's collaborators. Any of them may be nil in tests that
// do not reach the routes using it.
type Deps struct {
	Auth       AuthServicer
	Chats      ChatSessions
	Trips      TripServicer
	Exports    ExportServicer
	MapsAPIKey string
	Log        *slog.Logger
}

// Server holds the handler dependencies.
type Server struct {
	auth    AuthServicer
	chats   ChatSessions
	trips   TripServicer
	exports ExportServicer
	mapsKey string
	log     *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
func NewServer(d Deps) *Server {
	log := d.Log
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		auth:    d.Auth,
		chats:   d.Chats,
		trips:   d.Trips,
		exports: d.Exports,
		mapsKey: d.MapsAPIKey,
		log:     log.With("component", "http"),
	}
}
