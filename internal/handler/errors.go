package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/pkordes/trip-planner/backend/internal/auth"
	"github.com/pkordes/trip-planner/backend/internal/chat"
	"github.com/pkordes/trip-planner/backend/internal/domain"
	"github.com/pkordes/trip-planner/backend/internal/planner"
)

// ErrorDetail is the machine code and human message of a failed request.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: ErrorDetail{Code: code, Message: message}})
}

// requestError answers a request rejected before reaching a service, such
// as a malformed body or path parameter.
func requestError(w http.ResponseWriter, message string) {
	writeError(w, http.StatusBadRequest, "bad_request", message)
}

// statusFor maps an error from the service layer to a status and code.
func statusFor(err error) (int, string) {
	var ae *auth.Error
	switch {
	case errors.As(err, &ae):
		switch ae.Code {
		case auth.CodeInvalidInput:
			return http.StatusBadRequest, string(ae.Code)
		case auth.CodeInvalidCredentials:
			return http.StatusUnauthorized, string(ae.Code)
		case auth.CodeEmailTaken:
			return http.StatusConflict, string(ae.Code)
		default:
			return http.StatusInternalServerError, string(ae.Code)
		}
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, domain.ErrValidation):
		return http.StatusUnprocessableEntity, "validation_error"
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, domain.ErrAlreadyExists):
		return http.StatusConflict, "conflict"
	case errors.Is(err, chat.ErrRequestInFlight):
		return http.StatusConflict, "request_in_flight"
	case errors.Is(err, chat.ErrSessionCompleted):
		return http.StatusConflict, "session_completed"
	case errors.Is(err, planner.ErrRequestFailed), errors.Is(err, planner.ErrMalformedResponse):
		return http.StatusBadGateway, "planner_unavailable"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

// serviceError writes err using statusFor. Auth errors carry their own
// user-facing message; internal errors are logged and never echoed.
func (s *Server) serviceError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusFor(err)
	var ae *auth.Error
	switch {
	case errors.As(err, &ae):
		if status >= http.StatusInternalServerError {
			s.log.ErrorContext(r.Context(), "auth failure", "code", ae.Code, "error", err)
		}
		writeError(w, status, code, ae.Message)
	case status == http.StatusInternalServerError:
		s.log.ErrorContext(r.Context(), "unhandled error", "path", r.URL.Path, "error", err)
		writeError(w, status, code, "internal server error")
	default:
		writeError(w, status, code, unwrapMessage(err))
	}
}

// unwrapMessage extracts the human-readable tail of a wrapped sentinel.
// e.g. "service.TripService.Activity: not found: activity 4 of 3" -> "activity 4 of 3"
func unwrapMessage(err error) string {
	msg := err.Error()
	for _, sentinel := range []error{domain.ErrNotFound, domain.ErrValidation, domain.ErrUnauthorized, domain.ErrAlreadyExists} {
		marker := sentinel.Error() + ": "
		if i := strings.LastIndex(msg, marker); i >= 0 && len(msg) > i+len(marker) {
			return msg[i+len(marker):]
		}
		if strings.HasSuffix(msg, sentinel.Error()) {
			return sentinel.Error()
		}
	}
	if i := strings.LastIndex(msg, ": "); i >= 0 {
		return msg[i+2:]
	}
	return msg
}
