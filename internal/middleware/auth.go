package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// Authenticator resolves a bearer token to the signed-in user. It must
// fail for tokens whose user has since signed out.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (uuid.UUID, error)
}

type ctxKey int

const (
	userIDKey ctxKey = iota
	userSlotKey
)

// WithUserID returns a copy of ctx carrying the signed-in user's id.
func WithUserID(ctx context.Context, id uuid.UUID) context.Context {
	if slot, ok := ctx.Value(userSlotKey).(*userSlot); ok {
		slot.id, slot.set = id, true
	}
	return context.WithValue(ctx, userIDKey, id)
}

// UserIDFrom returns the signed-in user's id, if any.
func UserIDFrom(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(userIDKey).(uuid.UUID)
	return id, ok
}

type userSlot struct {
	id  uuid.UUID
	set bool
}

func withUserSlot(ctx context.Context, s *userSlot) context.Context {
	return context.WithValue(ctx, userSlotKey, s)
}

// OptionalUser attaches the user when a valid bearer token is presented and
// lets anonymous requests through. A token that is presented but invalid
// is rejected with 401 rather than silently downgraded to anonymous.
func OptionalUser(a Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}
			id, err := a.Authenticate(r.Context(), token)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "unauthorized", "invalid or expired token")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), id)))
		})
	}
}

// RequireUser rejects requests without a valid bearer token.
func RequireUser(a Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				writeError(w, http.StatusUnauthorized, "unauthorized", "sign in required")
				return
			}
			id, err := a.Authenticate(r.Context(), token)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "unauthorized", "invalid or expired token")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), id)))
		})
	}
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(h[len(prefix):])
}
