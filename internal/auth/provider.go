package auth

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/pkordes/trip-planner/backend/internal/domain"
)

// User is an identity as the provider knows it.
type User struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
}

// EventKind is the type of an identity-provider state change.
type EventKind int

const (
	SignedIn EventKind = iota + 1
	SignedOut
)

// Event is delivered to subscribers when a user signs in or out.
type Event struct {
	Kind EventKind
	User User
}

// Listener receives provider events synchronously, on the goroutine of the
// operation that caused them.
type Listener func(ctx context.Context, ev Event)

// Provider is an identity provider. Creating an account also signs the new
// user in.
type Provider interface {
	CreateAccount(ctx context.Context, email, password, displayName string) (User, error)
	SignIn(ctx context.Context, email, password string) (User, error)
	SignOut(ctx context.Context, user User) error
	// Subscribe registers l and returns a function that removes it.
	Subscribe(l Listener) (unsubscribe func())
}

// AccountStore is the persistence a LocalProvider needs.
type AccountStore interface {
	Create(ctx context.Context, acct domain.Account) (domain.Account, error)
	GetByEmail(ctx context.Context, email string) (domain.Account, error)
}

// LocalProvider keeps accounts in the application database with bcrypt
// password hashes.
type LocalProvider struct {
	accounts AccountStore
	cost     int
	log      *slog.Logger

	mu        sync.RWMutex
	listeners map[int]Listener
	nextID    int
}

// NewLocalProvider returns a provider over accounts. cost is the bcrypt cost;
// values below bcrypt.MinCost use bcrypt.DefaultCost.
func NewLocalProvider(accounts AccountStore, cost int, log *slog.Logger) *LocalProvider {
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	return &LocalProvider{
		accounts:  accounts,
		cost:      cost,
		log:       log.With("component", "identity_provider"),
		listeners: make(map[int]Listener),
	}
}

func (p *LocalProvider) CreateAccount(ctx context.Context, email, password, displayName string) (User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return User{}, newError(CodeInvalidInput, "password cannot be used", err)
	}

	acct, err := p.accounts.Create(ctx, domain.Account{
		Email:        email,
		PasswordHash: string(hash),
		DisplayName:  displayName,
		CreatedAt:    time.Now(),
	})
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return User{}, newError(CodeEmailTaken, "an account with this email already exists", err)
		}
		return User{}, newError(CodeProviderFailure, "could not create account", err)
	}

	u := userFromAccount(acct)
	p.log.InfoContext(ctx, "account created", "user_id", u.ID)
	p.emit(ctx, Event{Kind: SignedIn, User: u})
	return u, nil
}

func (p *LocalProvider) SignIn(ctx context.Context, email, password string) (User, error) {
	acct, err := p.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return User{}, newError(CodeInvalidCredentials, "invalid email or password", nil)
		}
		return User{}, newError(CodeProviderFailure, "could not sign in", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(password)); err != nil {
		return User{}, newError(CodeInvalidCredentials, "invalid email or password", nil)
	}

	u := userFromAccount(acct)
	p.emit(ctx, Event{Kind: SignedIn, User: u})
	return u, nil
}

func (p *LocalProvider) SignOut(ctx context.Context, user User) error {
	p.emit(ctx, Event{Kind: SignedOut, User: user})
	return nil
}

func (p *LocalProvider) Subscribe(l Listener) func() {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := p.nextID
	p.nextID++
	p.listeners[id] = l
	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.listeners, id)
	}
}

func (p *LocalProvider) emit(ctx context.Context, ev Event) {
	p.mu.RLock()
	ls := make([]Listener, 0, len(p.listeners))
	for _, l := range p.listeners {
		ls = append(ls, l)
	}
	p.mu.RUnlock()

	for _, l := range ls {
		l(ctx, ev)
	}
}

func userFromAccount(a domain.Account) User {
	return User{ID: a.ID, Email: a.Email, DisplayName: a.DisplayName}
}
