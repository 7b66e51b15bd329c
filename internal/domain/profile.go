package domain

import (
	"time"

	"github.com/google/uuid"
)

// Profile is the public face of an account. ID always equals the id of the
// identity-provider account it belongs to.
type Profile struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	CreatedAt time.Time `json:"created_at"`
}

// Account is an identity-provider record. PasswordHash never leaves the
// repo and auth packages.
type Account struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	DisplayName  string
	CreatedAt    time.Time
}
