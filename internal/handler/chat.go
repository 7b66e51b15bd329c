package handler

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/pkordes/trip-planner/backend/internal/chat"
	"github.com/pkordes/trip-planner/backend/internal/domain"
)

// SendMessageRequest is the body of POST /chat/sessions/{id}/messages.
type SendMessageRequest struct {
	Content string `json:"content"`
}

// SendMessageResponse carries the assistant's reply and the session state
// after it.
type SendMessageResponse struct {
	Reply domain.Message `json:"reply"`
	State chat.State     `json:"state"`
}

// PlannerErrorResponse is returned with 502 when the itinerary service
// failed. The apology reply is part of the transcript, so it is sent along.
type PlannerErrorResponse struct {
	ErrorResponse
	SendMessageResponse
}

// CreateChatSession handles POST /chat/sessions. A signed-in caller owns
// the new session and its exchanges are logged.
func (s *Server) CreateChatSession(w http.ResponseWriter, r *http.Request) {
	sess := s.chats.Create(currentUser(r))
	writeJSON(w, http.StatusCreated, sess.Snapshot())
}

// GetChatSession handles GET /chat/sessions/{id}.
func (s *Server) GetChatSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

// SendChatMessage handles POST /chat/sessions/{id}/messages.
func (s *Server) SendChatMessage(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}
	var req SendMessageRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if user := currentUser(r); user != uuid.Nil {
		sess.Claim(user)
	}

	reply, err := sess.Send(r.Context(), req.Content)
	if err != nil {
		status, code := statusFor(err)
		if reply.Message.ID != "" {
			writeJSON(w, status, PlannerErrorResponse{
				ErrorResponse:       ErrorResponse{Error: ErrorDetail{Code: code, Message: chat.Apology}},
				SendMessageResponse: SendMessageResponse{Reply: reply.Message, State: reply.State},
			})
			return
		}
		s.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, SendMessageResponse{Reply: reply.Message, State: reply.State})
}

// SaveChatSession handles POST /chat/sessions/{id}/save: the finished
// itinerary becomes a trip owned by the caller.
func (s *Server) SaveChatSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}
	user := currentUser(r)
	if !sess.Claim(user) {
		writeError(w, http.StatusNotFound, "not_found", "chat session not found")
		return
	}
	payload, done := sess.Itinerary()
	if !done {
		s.serviceError(w, r, fmt.Errorf("%w: the session has no final itinerary yet", domain.ErrValidation))
		return
	}

	detail, err := s.trips.SaveItinerary(r.Context(), user, payload)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, newTripDetailResponse(detail))
}

// lookupSession resolves {id}. A session owned by someone else is reported
// as missing.
func (s *Server) lookupSession(w http.ResponseWriter, r *http.Request) (*chat.Session, bool) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return nil, false
	}
	sess, ok := s.chats.Get(id)
	if ok {
		owner := sess.Owner()
		ok = owner == uuid.Nil || owner == currentUser(r)
	}
	if !ok {
		s.serviceError(w, r, fmt.Errorf("%w: chat session not found", domain.ErrNotFound))
		return nil, false
	}
	return sess, true
}
