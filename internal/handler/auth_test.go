package handler_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/pkordes/trip-planner/backend/internal/auth"
	"github.com/pkordes/trip-planner/backend/internal/domain"
	"github.com/pkordes/trip-planner/backend/internal/handler"
)

// memStore backs a real auth.Holder for the end-to-end sign-in tests.
type memStore struct {
	mu       sync.Mutex
	accounts map[string]domain.Account
	profiles map[uuid.UUID]domain.Profile
}

var (
	_ auth.AccountStore = (*memStore)(nil)
	_ auth.ProfileStore = (*memStore)(nil)
)

func newMemStore() *memStore {
	return &memStore{accounts: map[string]domain.Account{}, profiles: map[uuid.UUID]domain.Profile{}}
}

func (m *memStore) Create(_ context.Context, a domain.Account) (domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a.Email = strings.ToLower(a.Email)
	if _, ok := m.accounts[a.Email]; ok {
		return domain.Account{}, domain.ErrAlreadyExists
	}
	a.ID = uuid.New()
	m.accounts[a.Email] = a
	return a, nil
}

func (m *memStore) GetByEmail(_ context.Context, email string) (domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[strings.ToLower(email)]
	if !ok {
		return domain.Account{}, domain.ErrNotFound
	}
	return a, nil
}

func (m *memStore) Upsert(_ context.Context, p domain.Profile) (domain.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[p.ID] = p
	return p, nil
}

func (m *memStore) GetByID(_ context.Context, id uuid.UUID) (domain.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[id]
	if !ok {
		return domain.Profile{}, domain.ErrNotFound
	}
	return p, nil
}

func newHolderAPI(t *testing.T) http.Handler {
	t.Helper()
	store := newMemStore()
	provider := auth.NewLocalProvider(store, bcrypt.MinCost, discardLogger())
	tokens := auth.NewTokenManager(strings.Repeat("k", 32), "trip-planner", time.Hour)
	holder := auth.NewHolder(provider, store, tokens, discardLogger())
	holder.Start()
	t.Cleanup(holder.Close)
	return newAPI(handler.Deps{Auth: holder})
}

func TestAuthFlow_SignUpMeSignOut(t *testing.T) {
	api := newHolderAPI(t)

	rec := do(t, api, http.MethodPost, "/auth/signup", "", handler.SignUpRequest{
		Email: "asha@example.com", Password: "secret1", DisplayName: "Asha",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	sess := decode[auth.Session](t, rec)
	require.NotEmpty(t, sess.Token)
	require.NotNil(t, sess.Profile)
	assert.Equal(t, "Asha", sess.Profile.FullName)

	rec = do(t, api, http.MethodGet, "/me", sess.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	me := decode[auth.State](t, rec)
	require.NotNil(t, me.User)
	assert.Equal(t, "asha@example.com", me.User.Email)

	rec = do(t, api, http.MethodPost, "/auth/signout", sess.Token, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	// The token is still well-formed and unexpired, but its user is gone.
	rec = do(t, api, http.MethodGet, "/me", sess.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "unauthorized", errorCode(t, rec))

	rec = do(t, api, http.MethodPost, "/auth/signin", "", handler.SignInRequest{Email: "ASHA@example.com", Password: "secret1"})
	require.Equal(t, http.StatusOK, rec.Code)
	again := decode[auth.Session](t, rec)
	assert.Equal(t, http.StatusOK, do(t, api, http.MethodGet, "/me", again.Token, nil).Code)
}

func TestAuth_ErrorCodes(t *testing.T) {
	api := newHolderAPI(t)

	rec := do(t, api, http.MethodPost, "/auth/signup", "", handler.SignUpRequest{Email: "not-an-email", Password: "secret1"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_input", errorCode(t, rec))

	body := handler.SignUpRequest{Email: "dev@example.com", Password: "secret1"}
	require.Equal(t, http.StatusCreated, do(t, api, http.MethodPost, "/auth/signup", "", body).Code)
	rec = do(t, api, http.MethodPost, "/auth/signup", "", body)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "email_taken", errorCode(t, rec))

	rec = do(t, api, http.MethodPost, "/auth/signin", "", handler.SignInRequest{Email: "dev@example.com", Password: "wrong-pass"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid_credentials", errorCode(t, rec))
}

func TestSignUp_ProfileWriteFailedIs500(t *testing.T) {
	a := &mockAuth{signUp: func(context.Context, string, string, string) (auth.Session, error) {
		return auth.Session{}, &auth.Error{Code: auth.CodeProfileWriteFailed, Message: "profile not saved", Err: errors.New("db down")}
	}}
	api := newAPI(handler.Deps{Auth: a})

	rec := do(t, api, http.MethodPost, "/auth/signup", "", handler.SignUpRequest{Email: "a@b.co", Password: "secret1"})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	resp := decode[handler.ErrorResponse](t, rec)
	assert.Equal(t, "profile_write_failed", resp.Error.Code)
	assert.Equal(t, "profile not saved", resp.Error.Message)
}

func TestSignIn_MalformedBody(t *testing.T) {
	api := newAPI(handler.Deps{Auth: &mockAuth{}})

	req := httptest.NewRequest(http.MethodPost, "/auth/signin", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	api.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "bad_request", errorCode(t, rec))
}

func TestGatedRoutes_RequireToken(t *testing.T) {
	api := newAPI(handler.Deps{Auth: tokenFor("good", uuid.New())})

	for _, tc := range []struct{ method, path string }{
		{http.MethodPost, "/auth/signout"},
		{http.MethodGet, "/me"},
		{http.MethodGet, "/me/trips"},
		{http.MethodPost, "/chat/sessions/" + uuid.NewString() + "/save"},
	} {
		rec := do(t, api, tc.method, tc.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", tc.method, tc.path)
	}
}
