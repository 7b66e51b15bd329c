package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. empty chat message, itinerary without days).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrAlreadyExists is returned by repo functions when a unique constraint
// rejects an insert (e.g. an email that is already registered).
var ErrAlreadyExists = errors.New("already exists")

// ErrUnauthorized is returned when a request carries no valid identity.
// Handlers should map this to HTTP 401.
var ErrUnauthorized = errors.New("unauthorized")
