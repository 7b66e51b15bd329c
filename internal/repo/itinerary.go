package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pkordes/trip-planner/backend/internal/domain"
)

// ItineraryRepo reads the per-day plans of a trip.
type ItineraryRepo interface {
	// ListByTrip returns the trip's days in ascending day_number order.
	// A trip with no days returns an empty slice, not an error.
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.ItineraryDay, error)

	// GetByID returns domain.ErrNotFound if the day does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (domain.ItineraryDay, error)
}

type pgItineraryRepo struct {
	db db
}

// NewItineraryRepo constructs an ItineraryRepo backed by the provided db connection.
func NewItineraryRepo(db db) ItineraryRepo {
	return &pgItineraryRepo{db: db}
}

var dayColumns = []string{"id", "trip_id", "day_number", "date", "daily_budget", "activities", "created_at"}

func (r *pgItineraryRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.ItineraryDay, error) {
	q, args, err := psql.Select(dayColumns...).
		From("itinerary_days").
		Where("trip_id = ?", tripID).
		OrderBy("day_number ASC", "created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("repo.ItineraryRepo.ListByTrip: build: %w", err)
	}

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("repo.ItineraryRepo.ListByTrip: %w", err)
	}
	defer rows.Close()

	days := []domain.ItineraryDay{}
	for rows.Next() {
		d, err := scanDay(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.ItineraryRepo.ListByTrip: scan: %w", err)
		}
		days = append(days, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.ItineraryRepo.ListByTrip: rows: %w", err)
	}
	return days, nil
}

func (r *pgItineraryRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.ItineraryDay, error) {
	q, args, err := psql.Select(dayColumns...).From("itinerary_days").Where("id = ?", id).ToSql()
	if err != nil {
		return domain.ItineraryDay{}, fmt.Errorf("repo.ItineraryRepo.GetByID: build: %w", err)
	}

	d, err := scanDay(r.db.QueryRow(ctx, q, args...))
	if err != nil {
		return domain.ItineraryDay{}, fmt.Errorf("repo.ItineraryRepo.GetByID: %w", err)
	}
	return d, nil
}

func insertDay(ctx context.Context, q db, d domain.ItineraryDay) (domain.ItineraryDay, error) {
	const stmt = `
		INSERT INTO itinerary_days (trip_id, day_number, date, daily_budget, activities)
		VALUES (@trip_id, @day_number, @date, @daily_budget, @activities)
		RETURNING id, trip_id, day_number, date, daily_budget, activities, created_at`

	activities := d.Activities
	if activities == nil {
		activities = []domain.Activity{}
	}

	return scanDay(q.QueryRow(ctx, stmt, pgx.NamedArgs{
		"trip_id":      d.TripID,
		"day_number":   d.DayNumber,
		"date":         d.Date,
		"daily_budget": d.DailyBudget,
		"activities":   activities,
	}))
}

func scanDay(s scanner) (domain.ItineraryDay, error) {
	var d domain.ItineraryDay
	err := s.Scan(&d.ID, &d.TripID, &d.DayNumber, &d.Date, &d.DailyBudget, &d.Activities, &d.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ItineraryDay{}, domain.ErrNotFound
		}
		return domain.ItineraryDay{}, err
	}
	if d.Activities == nil {
		d.Activities = []domain.Activity{}
	}
	return d, nil
}
