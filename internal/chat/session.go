package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/pkordes/trip-planner/backend/internal/domain"
	"github.com/pkordes/trip-planner/backend/internal/planner"
)

// Apology is the assistant reply appended when a generation request fails.
const Apology = "Sorry, I couldn't generate your itinerary right now."

const clarificationPrefix = "I need some more info:\n"

// ErrRequestInFlight is returned when a message is sent while the previous
// one is still waiting for the planner.
var ErrRequestInFlight = errors.New("a request is already in flight for this session")

// ErrSessionCompleted is returned when a message is sent to a session that
// already produced an itinerary.
var ErrSessionCompleted = errors.New("session already completed")

// Planner is the part of the itinerary service a session uses.
type Planner interface {
	RequestInitialPlan(ctx context.Context, prompt string) (planner.Outcome, error)
	RequestFinalPlan(ctx context.Context, originalPrompt, answers string) (planner.Outcome, error)
}

// Session is one conversation with the assistant. It is safe for concurrent
// use; at most one planner request is outstanding at a time.
type Session struct {
	ID uuid.UUID

	planner    Planner
	recorder   Recorder
	log        *slog.Logger
	transcript *Transcript

	mu             sync.Mutex
	owner          uuid.UUID
	state          State
	originalPrompt string
	itinerary      json.RawMessage
}

// Reply is the outcome of a Send.
type Reply struct {
	Message domain.Message
	State   State
}

// Snapshot is a point-in-time copy of a session for rendering.
type Snapshot struct {
	ID        uuid.UUID        `json:"id"`
	State     State            `json:"state"`
	Messages  []domain.Message `json:"messages"`
	Itinerary json.RawMessage  `json:"itinerary,omitempty"`
}

// NewSession starts a conversation. owner is uuid.Nil for anonymous users;
// only owned sessions are recorded. A nil recorder disables recording.
func NewSession(p Planner, rec Recorder, owner uuid.UUID, log *slog.Logger) *Session {
	if rec == nil {
		rec = NopRecorder{}
	}
	id := uuid.New()
	return &Session{
		ID:         id,
		planner:    p,
		recorder:   rec,
		log:        log.With("session_id", id),
		transcript: NewTranscript(),
		owner:      owner,
	}
}

// Owner returns the signed-in user the session belongs to, or uuid.Nil.
func (s *Session) Owner() uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.owner
}

// Claim assigns an anonymous session to userID. It reports false when the
// session already belongs to a different user.
func (s *Session) Claim(userID uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.owner == uuid.Nil {
		s.owner = userID
	}
	return s.owner == userID
}

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Transcript returns the session's message log.
func (s *Session) Transcript() *Transcript {
	return s.transcript
}

// Itinerary returns the final itinerary payload once the session is completed.
func (s *Session) Itinerary() (json.RawMessage, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.itinerary, s.state == Completed
}

// Snapshot copies the session's current state and messages.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	state, itinerary := s.state, s.itinerary
	s.mu.Unlock()
	return Snapshot{ID: s.ID, State: state, Messages: s.transcript.Entries(), Itinerary: itinerary}
}

// Send appends the user's text, asks the planner, and appends the assistant
// reply. The text is kept and forwarded exactly as given; blank text is
// rejected. The planner call is detached from ctx's cancellation, so a request
// abandoned by the caller still completes and lands in the transcript.
//
// On planner failure the apology is appended and returned together with
// the error, and the session goes back to the state it was in so the user
// can retry the same step.
func (s *Session) Send(ctx context.Context, text string) (Reply, error) {
	if strings.TrimSpace(text) == "" {
		return Reply{}, fmt.Errorf("chat.Session.Send: %w: message is empty", domain.ErrValidation)
	}

	s.mu.Lock()
	prev := s.state
	switch prev {
	case AwaitingResponse:
		s.mu.Unlock()
		return Reply{}, fmt.Errorf("chat.Session.Send: %w", ErrRequestInFlight)
	case Completed:
		s.mu.Unlock()
		return Reply{}, fmt.Errorf("chat.Session.Send: %w", ErrSessionCompleted)
	}
	userMsg := s.transcript.Append(domain.Message{Role: domain.RoleUser, Content: text})
	s.state = AwaitingResponse
	originalPrompt := s.originalPrompt
	s.mu.Unlock()

	reqCtx := context.WithoutCancel(ctx)
	var (
		out planner.Outcome
		err error
	)
	if prev == AwaitingClarifyingAnswer {
		out, err = s.planner.RequestFinalPlan(reqCtx, originalPrompt, text)
	} else {
		out, err = s.planner.RequestInitialPlan(reqCtx, text)
	}

	s.mu.Lock()
	var reply domain.Message
	switch {
	case err != nil:
		reply = s.transcript.Append(domain.Message{Role: domain.RoleAssistant, Content: Apology})
		s.state = prev
	case out.Kind == planner.NeedsClarification:
		reply = s.transcript.Append(domain.Message{Role: domain.RoleAssistant, Content: clarificationPrefix + out.Question})
		s.originalPrompt = text
		s.state = AwaitingClarifyingAnswer
	default:
		reply = s.transcript.Append(domain.Message{
			Role:      domain.RoleAssistant,
			Content:   planner.Render(out.Itinerary),
			IsFinal:   true,
			Itinerary: out.Itinerary,
		})
		s.itinerary = out.Itinerary
		s.state = Completed
	}
	state, owner := s.state, s.owner
	s.mu.Unlock()

	if owner != uuid.Nil {
		s.recorder.Record(ctx,
			domain.ChatLogEntry{UserID: owner, SessionID: s.ID, Role: userMsg.Role, Content: userMsg.Content, CreatedAt: userMsg.CreatedAt},
			domain.ChatLogEntry{UserID: owner, SessionID: s.ID, Role: reply.Role, Content: reply.Content, CreatedAt: reply.CreatedAt},
		)
	}

	if err != nil {
		s.log.WarnContext(ctx, "itinerary request failed", "from_state", prev.String(), "error", err)
		return Reply{Message: reply, State: state}, fmt.Errorf("chat.Session.Send: %w", err)
	}
	s.log.InfoContext(ctx, "assistant replied", "state", state.String())
	return Reply{Message: reply, State: state}, nil
}
