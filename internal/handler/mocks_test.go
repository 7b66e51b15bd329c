package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-planner/backend/internal/auth"
	"github.com/pkordes/trip-planner/backend/internal/chat"
	"github.com/pkordes/trip-planner/backend/internal/domain"
	"github.com/pkordes/trip-planner/backend/internal/handler"
	"github.com/pkordes/trip-planner/backend/internal/planner"
	"github.com/pkordes/trip-planner/backend/internal/service"
)

// Hand-written test doubles. Set only the function fields a test needs.

type mockAuth struct {
	authenticate func(ctx context.Context, token string) (uuid.UUID, error)
	signUp       func(ctx context.Context, email, password, displayName string) (auth.Session, error)
	signIn       func(ctx context.Context, email, password string) (auth.Session, error)
	signOut      func(ctx context.Context, userID uuid.UUID) error
	current      func(userID uuid.UUID) auth.State
}

var _ handler.AuthServicer = (*mockAuth)(nil)

func (m *mockAuth) Authenticate(ctx context.Context, token string) (uuid.UUID, error) {
	return m.authenticate(ctx, token)
}
func (m *mockAuth) SignUp(ctx context.Context, email, password, displayName string) (auth.Session, error) {
	return m.signUp(ctx, email, password, displayName)
}
func (m *mockAuth) SignIn(ctx context.Context, email, password string) (auth.Session, error) {
	return m.signIn(ctx, email, password)
}
func (m *mockAuth) SignOut(ctx context.Context, userID uuid.UUID) error {
	return m.signOut(ctx, userID)
}
func (m *mockAuth) Current(userID uuid.UUID) auth.State {
	return m.current(userID)
}

// tokenFor returns a mockAuth that accepts "Bearer <token>" for userID.
func tokenFor(token string, userID uuid.UUID) *mockAuth {
	return &mockAuth{authenticate: func(_ context.Context, got string) (uuid.UUID, error) {
		if got == token {
			return userID, nil
		}
		return uuid.Nil, domain.ErrUnauthorized
	}}
}

type mockTrips struct {
	detail        func(ctx context.Context, id uuid.UUID) service.TripDetail
	recent        func(ctx context.Context, ownerID uuid.UUID, p domain.PaginationParams) []domain.Trip
	activity      func(ctx context.Context, dayID uuid.UUID, index int) (service.ActivityView, error)
	saveItinerary func(ctx context.Context, ownerID uuid.UUID, payload json.RawMessage) (service.TripDetail, error)
	stories       func(ctx context.Context, tripID uuid.UUID) ([]domain.Story, bool)
}

var _ handler.TripServicer = (*mockTrips)(nil)

func (m *mockTrips) Detail(ctx context.Context, id uuid.UUID) service.TripDetail {
	return m.detail(ctx, id)
}
func (m *mockTrips) Recent(ctx context.Context, ownerID uuid.UUID, p domain.PaginationParams) []domain.Trip {
	return m.recent(ctx, ownerID, p)
}
func (m *mockTrips) Activity(ctx context.Context, dayID uuid.UUID, index int) (service.ActivityView, error) {
	return m.activity(ctx, dayID, index)
}
func (m *mockTrips) SaveItinerary(ctx context.Context, ownerID uuid.UUID, payload json.RawMessage) (service.TripDetail, error) {
	return m.saveItinerary(ctx, ownerID, payload)
}
func (m *mockTrips) Stories(ctx context.Context, tripID uuid.UUID) ([]domain.Story, bool) {
	return m.stories(ctx, tripID)
}

type mockExports struct {
	tripItinerary func(ctx context.Context, tripID uuid.UUID) (domain.Table, service.TripDetail)
	dayActivities func(ctx context.Context, dayID uuid.UUID) (domain.Table, bool)
}

var _ handler.ExportServicer = (*mockExports)(nil)

func (m *mockExports) TripItinerary(ctx context.Context, tripID uuid.UUID) (domain.Table, service.TripDetail) {
	return m.tripItinerary(ctx, tripID)
}
func (m *mockExports) DayActivities(ctx context.Context, dayID uuid.UUID) (domain.Table, bool) {
	return m.dayActivities(ctx, dayID)
}

type mockPlanner struct {
	initial func(ctx context.Context, prompt string) (planner.Outcome, error)
	final   func(ctx context.Context, originalPrompt, answers string) (planner.Outcome, error)
}

var _ chat.Planner = (*mockPlanner)(nil)

func (m *mockPlanner) RequestInitialPlan(ctx context.Context, prompt string) (planner.Outcome, error) {
	return m.initial(ctx, prompt)
}
func (m *mockPlanner) RequestFinalPlan(ctx context.Context, originalPrompt, answers string) (planner.Outcome, error) {
	return m.final(ctx, originalPrompt, answers)
}

// ---- helpers ---------------------------------------------------------------

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newAPI wires a Server into the production router.
func newAPI(d handler.Deps) http.Handler {
	d.Log = discardLogger()
	return handler.NewRouter(handler.NewServer(d), handler.RouterConfig{
		CORSOrigins:  []string{"http://localhost:5173"},
		MaxBodyBytes: 1 << 20,
		Log:          d.Log,
	})
}

func newRegistry(p chat.Planner) *chat.Registry {
	return chat.NewRegistry(p, nil, time.Hour, discardLogger())
}

func do(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[handler.ErrorResponse](t, rec).Error.Code
}
