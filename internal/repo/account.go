package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/pkordes/trip-planner/backend/internal/domain"
)

// AccountRepo stores identity-provider accounts.
type AccountRepo interface {
	// Create inserts an account. Emails are stored lowercased; a duplicate
	// email returns domain.ErrAlreadyExists.
	Create(ctx context.Context, acct domain.Account) (domain.Account, error)

	// GetByEmail looks an account up case-insensitively.
	// Returns domain.ErrNotFound if no account has that email.
	GetByEmail(ctx context.Context, email string) (domain.Account, error)
}

type pgAccountRepo struct {
	db db
}

// NewAccountRepo constructs an AccountRepo backed by the provided db connection.
func NewAccountRepo(db db) AccountRepo {
	return &pgAccountRepo{db: db}
}

func (r *pgAccountRepo) Create(ctx context.Context, acct domain.Account) (domain.Account, error) {
	const q = `
		INSERT INTO accounts (email, password_hash, display_name)
		VALUES (@email, @password_hash, @display_name)
		RETURNING id, email, password_hash, display_name, created_at`

	args := pgx.NamedArgs{
		"email":         strings.ToLower(strings.TrimSpace(acct.Email)),
		"password_hash": acct.PasswordHash,
		"display_name":  acct.DisplayName,
	}

	out, err := scanAccount(r.db.QueryRow(ctx, q, args))
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Account{}, fmt.Errorf("repo.AccountRepo.Create: %w", domain.ErrAlreadyExists)
		}
		return domain.Account{}, fmt.Errorf("repo.AccountRepo.Create: %w", err)
	}
	return out, nil
}

func (r *pgAccountRepo) GetByEmail(ctx context.Context, email string) (domain.Account, error) {
	const q = `
		SELECT id, email, password_hash, display_name, created_at
		FROM accounts
		WHERE lower(email) = @email`

	out, err := scanAccount(r.db.QueryRow(ctx, q, pgx.NamedArgs{
		"email": strings.ToLower(strings.TrimSpace(email)),
	}))
	if err != nil {
		return domain.Account{}, fmt.Errorf("repo.AccountRepo.GetByEmail: %w", err)
	}
	return out, nil
}

func scanAccount(s scanner) (domain.Account, error) {
	var a domain.Account
	err := s.Scan(&a.ID, &a.Email, &a.PasswordHash, &a.DisplayName, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Account{}, domain.ErrNotFound
	}
	return a, err
}
