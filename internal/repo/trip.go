package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pkordes/trip-planner/backend/internal/domain"
)

// TripRepo defines the persistence operations for Trips.
// The service layer depends on this interface, not the concrete Postgres
// implementation, which allows the service to be unit-tested with a mock.
type TripRepo interface {
	// Create inserts a new trip and returns the persisted record (with DB-generated
	// id, created_at, and updated_at populated).
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// CreateWithDays inserts a trip and its itinerary days in one transaction.
	// Either everything is written or nothing is.
	CreateWithDays(ctx context.Context, trip domain.Trip, days []domain.ItineraryDay) (domain.Trip, []domain.ItineraryDay, error)

	// GetByID retrieves a single trip by its UUID primary key.
	// Returns domain.ErrNotFound if no trip with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)

	// ListByOwner returns one page of the owner's trips, newest first.
	ListByOwner(ctx context.Context, ownerID uuid.UUID, p domain.PaginationParams) ([]domain.Trip, error)
}

type pgTripRepo struct {
	db db
}

// NewTripRepo constructs a TripRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewTripRepo(db db) TripRepo {
	return &pgTripRepo{db: db}
}

var tripColumns = []string{
	"id", "user_id", "title", "destination", "duration_days", "budget", "status",
	"start_date", "end_date", "preferences", "source", "created_at", "updated_at",
}

const tripReturning = `
	RETURNING id, user_id, title, destination, duration_days, budget, status,
	          start_date, end_date, preferences, source, created_at, updated_at`

func (r *pgTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	out, err := insertTrip(ctx, r.db, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w", err)
	}
	return out, nil
}

func (r *pgTripRepo) CreateWithDays(ctx context.Context, trip domain.Trip, days []domain.ItineraryDay) (domain.Trip, []domain.ItineraryDay, error) {
	var (
		outTrip domain.Trip
		outDays = make([]domain.ItineraryDay, 0, len(days))
	)
	err := withTx(ctx, r.db, func(tx pgx.Tx) error {
		var err error
		outTrip, err = insertTrip(ctx, tx, trip)
		if err != nil {
			return err
		}
		for _, d := range days {
			d.TripID = outTrip.ID
			saved, err := insertDay(ctx, tx, d)
			if err != nil {
				return fmt.Errorf("day %d: %w", d.DayNumber, err)
			}
			outDays = append(outDays, saved)
		}
		return nil
	})
	if err != nil {
		return domain.Trip{}, nil, fmt.Errorf("repo.TripRepo.CreateWithDays: %w", err)
	}
	return outTrip, outDays, nil
}

func (r *pgTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	q, args, err := psql.Select(tripColumns...).From("trips").Where("id = ?", id).ToSql()
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: build: %w", err)
	}

	out, err := scanTrip(r.db.QueryRow(ctx, q, args...))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", err)
	}
	return out, nil
}

func (r *pgTripRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID, p domain.PaginationParams) ([]domain.Trip, error) {
	q, args, err := psql.Select(tripColumns...).
		From("trips").
		Where("user_id = ?", ownerID).
		OrderBy("created_at DESC", "id").
		Limit(uint64(p.Limit)).
		Offset(uint64(p.Offset())).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.ListByOwner: build: %w", err)
	}

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.ListByOwner: %w", err)
	}
	defer rows.Close()

	trips := []domain.Trip{}
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.TripRepo.ListByOwner: scan: %w", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.TripRepo.ListByOwner: rows: %w", err)
	}
	return trips, nil
}

func insertTrip(ctx context.Context, q db, trip domain.Trip) (domain.Trip, error) {
	const stmt = `
		INSERT INTO trips (user_id, title, destination, duration_days, budget, status,
		                   start_date, end_date, preferences, source)
		VALUES (@user_id, @title, @destination, @duration_days, @budget, @status,
		        @start_date, @end_date, @preferences, @source)` + tripReturning

	prefs := trip.Preferences
	if prefs == nil {
		prefs = map[string]any{}
	}
	var source []byte
	if len(trip.Source) > 0 {
		source = trip.Source
	}

	return scanTrip(q.QueryRow(ctx, stmt, pgx.NamedArgs{
		"user_id":       trip.UserID,
		"title":         trip.Title,
		"destination":   trip.Destination,
		"duration_days": trip.DurationDays,
		"budget":        trip.Budget,
		"status":        string(trip.Status.OrDefault()),
		"start_date":    trip.StartDate, // nil becomes NULL
		"end_date":      trip.EndDate,
		"preferences":   prefs,
		"source":        source,
	}))
}

// scanTrip maps a single database row into a domain.Trip.
func scanTrip(s scanner) (domain.Trip, error) {
	var (
		t      domain.Trip
		status string
		prefs  map[string]any
		source []byte
	)

	err := s.Scan(&t.ID, &t.UserID, &t.Title, &t.Destination, &t.DurationDays, &t.Budget, &status,
		&t.StartDate, &t.EndDate, &prefs, &source, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Trip{}, domain.ErrNotFound
		}
		return domain.Trip{}, err
	}

	t.Status = domain.TripStatus(status).OrDefault()
	t.Preferences = prefs
	if len(source) > 0 {
		t.Source = json.RawMessage(source)
	}
	return t, nil
}
