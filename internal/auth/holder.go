package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/pkordes/trip-planner/backend/internal/domain"
)

const minPasswordLen = 6

// ProfileStore is the profile persistence the Holder needs.
type ProfileStore interface {
	Upsert(ctx context.Context, p domain.Profile) (domain.Profile, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Profile, error)
}

// State is the live view of one signed-in user. Profile is nil when the
// user has no profile record.
type State struct {
	User    *User           `json:"user"`
	Profile *domain.Profile `json:"profile"`
	Loading bool            `json:"loading"`
}

// Session is what a successful sign-up or sign-in hands back.
type Session struct {
	Token     string          `json:"access_token"`
	ExpiresAt time.Time       `json:"expires_at"`
	User      User            `json:"user"`
	Profile   *domain.Profile `json:"profile"`
}

// Holder tracks who is signed in by following the identity provider's
// events. There is one per process: create it in main, Start it, and Close
// it on shutdown.
//
// A user is forgotten on sign-out, or once their latest access token has
// expired.
type Holder struct {
	provider Provider
	profiles ProfileStore
	tokens   *TokenManager
	log      *slog.Logger

	// mu guards the *State values; the cache itself is safe for concurrent use.
	mu          sync.RWMutex
	users       *cache.Cache
	unsubscribe func()
}

// NewHolder wires a Holder. It does nothing until Start.
func NewHolder(p Provider, profiles ProfileStore, tokens *TokenManager, log *slog.Logger) *Holder {
	ttl := tokens.TTL()
	return &Holder{
		provider: p,
		profiles: profiles,
		tokens:   tokens,
		log:      log.With("service", "auth"),
		users:    cache.New(ttl, min(ttl, 10*time.Minute)),
	}
}

// Start subscribes to the identity provider. Calling it twice is a no-op.
func (h *Holder) Start() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.unsubscribe == nil {
		h.unsubscribe = h.provider.Subscribe(h.onEvent)
	}
}

// Close unsubscribes and forgets every signed-in user.
func (h *Holder) Close() {
	h.mu.Lock()
	unsubscribe := h.unsubscribe
	h.unsubscribe = nil
	h.users.Flush()
	h.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}

// Current returns a copy of the user's state. A user who is not signed in
// has a zero State.
func (h *Holder) Current(userID uuid.UUID) State {
	h.mu.RLock()
	defer h.mu.RUnlock()
	st, ok := h.state(userID)
	if !ok {
		return State{}
	}
	return st.copy()
}

// Len returns the number of users held, expired ones possibly included
// until the next cleanup.
func (h *Holder) Len() int {
	return h.users.ItemCount()
}

func (h *Holder) state(userID uuid.UUID) (*State, bool) {
	v, ok := h.users.Get(userID.String())
	if !ok {
		return nil, false
	}
	return v.(*State), true
}

// Authenticate resolves an access token to a signed-in user. A valid token
// for a user who has since signed out is rejected.
func (h *Holder) Authenticate(_ context.Context, token string) (uuid.UUID, error) {
	userID, err := h.tokens.Validate(token)
	if err != nil {
		return uuid.Nil, fmt.Errorf("auth.Holder.Authenticate: %w: %v", domain.ErrUnauthorized, err)
	}
	if h.Current(userID).User == nil {
		return uuid.Nil, fmt.Errorf("auth.Holder.Authenticate: %w: user is signed out", domain.ErrUnauthorized)
	}
	return userID, nil
}

// SignUp creates an identity-provider account and then its profile. The two
// writes are not atomic: if the profile write fails the account remains,
// the user is signed out again, and a profile_write_failed error is returned.
func (h *Holder) SignUp(ctx context.Context, email, password, displayName string) (Session, error) {
	email = strings.TrimSpace(email)
	displayName = strings.TrimSpace(displayName)
	if err := validateCredentials(email, password); err != nil {
		return Session{}, err
	}

	user, err := h.provider.CreateAccount(ctx, email, password, displayName)
	if err != nil {
		return Session{}, asAuthError(err, "could not create account")
	}

	profile, err := h.profiles.Upsert(ctx, domain.Profile{
		ID:        user.ID,
		Email:     user.Email,
		FullName:  displayName,
		CreatedAt: time.Now(),
	})
	if err != nil {
		h.log.ErrorContext(ctx, "profile write failed after account creation", "user_id", user.ID, "error", err)
		h.forceSignOut(ctx, user)
		return Session{}, newError(CodeProfileWriteFailed, "your account was created but your profile could not be saved", err)
	}
	h.setProfile(user.ID, &profile)

	return h.issue(ctx, user)
}

// SignIn authenticates with the identity provider and returns a session.
func (h *Holder) SignIn(ctx context.Context, email, password string) (Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return Session{}, newError(CodeInvalidInput, "email and password are required", nil)
	}

	user, err := h.provider.SignIn(ctx, email, password)
	if err != nil {
		return Session{}, asAuthError(err, "could not sign in")
	}
	return h.issue(ctx, user)
}

// SignOut signs the user out with the provider and clears local state.
func (h *Holder) SignOut(ctx context.Context, userID uuid.UUID) error {
	user := User{ID: userID}
	if st := h.Current(userID); st.User != nil {
		user = *st.User
	}
	err := h.provider.SignOut(ctx, user)
	h.clear(userID)
	if err != nil {
		return asAuthError(err, "could not sign out")
	}
	return nil
}

func (h *Holder) issue(ctx context.Context, user User) (Session, error) {
	token, exp, err := h.tokens.Issue(user.ID)
	if err != nil {
		h.forceSignOut(ctx, user)
		return Session{}, newError(CodeProviderFailure, "could not start a session", err)
	}
	h.keepUntil(user.ID, exp)
	return Session{Token: token, ExpiresAt: exp, User: user, Profile: h.Current(user.ID).Profile}, nil
}

func (h *Holder) forceSignOut(ctx context.Context, user User) {
	if err := h.provider.SignOut(ctx, user); err != nil {
		h.log.WarnContext(ctx, "sign out after failure", "user_id", user.ID, "error", err)
	}
	h.clear(user.ID)
}

// onEvent keeps the signed-in map in step with the identity provider.
func (h *Holder) onEvent(ctx context.Context, ev Event) {
	switch ev.Kind {
	case SignedIn:
		u := ev.User
		h.mu.Lock()
		h.users.SetDefault(u.ID.String(), &State{User: &u, Loading: true})
		h.mu.Unlock()

		var profile *domain.Profile
		p, err := h.profiles.GetByID(ctx, u.ID)
		switch {
		case err == nil:
			profile = &p
		case errors.Is(err, domain.ErrNotFound):
		default:
			h.log.WarnContext(ctx, "load profile", "user_id", u.ID, "error", err)
		}
		h.setProfile(u.ID, profile)
	case SignedOut:
		h.clear(ev.User.ID)
	}
}

func (h *Holder) setProfile(userID uuid.UUID, p *domain.Profile) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if st, ok := h.state(userID); ok {
		st.Profile = p
		st.Loading = false
	}
}

// keepUntil moves the user's expiry to exp, the expiry of their newest token.
func (h *Holder) keepUntil(userID uuid.UUID, exp time.Time) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if st, ok := h.state(userID); ok {
		// A non-positive duration would mean "default" or "never" to the cache.
		h.users.Set(userID.String(), st, max(time.Until(exp), time.Millisecond))
	}
}

func (h *Holder) clear(userID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.users.Delete(userID.String())
}

func (s *State) copy() State {
	out := State{Loading: s.Loading}
	if s.User != nil {
		u := *s.User
		out.User = &u
	}
	if s.Profile != nil {
		p := *s.Profile
		out.Profile = &p
	}
	return out
}

func validateCredentials(email, password string) error {
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return newError(CodeInvalidInput, "a valid email address is required", nil)
	}
	if len(password) < minPasswordLen {
		return newError(CodeInvalidInput, fmt.Sprintf("password must be at least %d characters", minPasswordLen), nil)
	}
	return nil
}

func asAuthError(err error, msg string) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return newError(CodeProviderFailure, msg, err)
}
