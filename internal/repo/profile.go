package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pkordes/trip-planner/backend/internal/domain"
)

// ProfileRepo stores user profiles. A profile's id is the id of the account
// it belongs to.
type ProfileRepo interface {
	// Upsert writes p, replacing any existing profile with the same id.
	Upsert(ctx context.Context, p domain.Profile) (domain.Profile, error)

	// GetByID returns domain.ErrNotFound when the user has no profile.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Profile, error)
}

type pgProfileRepo struct {
	db db
}

// NewProfileRepo constructs a ProfileRepo backed by the provided db connection.
func NewProfileRepo(db db) ProfileRepo {
	return &pgProfileRepo{db: db}
}

type profileRow struct {
	ID        uuid.UUID `db:"id"`
	Email     string    `db:"email"`
	FullName  string    `db:"full_name"`
	CreatedAt time.Time `db:"created_at"`
}

func (p profileRow) toDomain() domain.Profile {
	return domain.Profile(p)
}

func (r *pgProfileRepo) Upsert(ctx context.Context, p domain.Profile) (domain.Profile, error) {
	const q = `
		INSERT INTO profiles (id, email, full_name, created_at)
		VALUES (@id, @email, @full_name, COALESCE(@created_at, now()))
		ON CONFLICT (id) DO UPDATE
		SET email = EXCLUDED.email, full_name = EXCLUDED.full_name
		RETURNING id, email, full_name, created_at`

	var createdAt *time.Time
	if !p.CreatedAt.IsZero() {
		createdAt = &p.CreatedAt
	}

	var row profileRow
	err := pgxscan.Get(ctx, r.db, &row, q, pgx.NamedArgs{
		"id":         p.ID,
		"email":      p.Email,
		"full_name":  p.FullName,
		"created_at": createdAt,
	})
	if err != nil {
		return domain.Profile{}, fmt.Errorf("repo.ProfileRepo.Upsert: %w", err)
	}
	return row.toDomain(), nil
}

func (r *pgProfileRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Profile, error) {
	const q = `SELECT id, email, full_name, created_at FROM profiles WHERE id = $1`

	var row profileRow
	if err := pgxscan.Get(ctx, r.db, &row, q, id); err != nil {
		if pgxscan.NotFound(err) {
			return domain.Profile{}, fmt.Errorf("repo.ProfileRepo.GetByID: %w", domain.ErrNotFound)
		}
		return domain.Profile{}, fmt.Errorf("repo.ProfileRepo.GetByID: %w", err)
	}
	return row.toDomain(), nil
}
