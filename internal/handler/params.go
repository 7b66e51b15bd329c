package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"

	"github.com/pkordes/trip-planner/backend/internal/middleware"
)

// pathUUID binds a {name} path segment as a UUID, answering 400 when it is
// not one.
func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	var id uuid.UUID
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Required: true})
	if err != nil {
		requestError(w, "invalid "+name+": must be a UUID")
		return uuid.Nil, false
	}
	return id, true
}

func pathInt(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	var n int
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &n,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Required: true})
	if err != nil {
		requestError(w, "invalid "+name+": must be an integer")
		return 0, false
	}
	return n, true
}

// queryInt binds an optional integer query parameter; absent yields nil.
func queryInt(w http.ResponseWriter, r *http.Request, name string) (*int, bool) {
	var n *int
	if err := runtime.BindQueryParameter("form", true, false, name, r.URL.Query(), &n); err != nil {
		requestError(w, "invalid "+name+": must be an integer")
		return nil, false
	}
	return n, true
}

// decodeBody reads a JSON request body into v, answering 413 or 400 on
// failure.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "body_too_large", "request body too large")
			return false
		}
		requestError(w, "request body must be valid JSON")
		return false
	}
	return true
}

// currentUser is the signed-in user, or uuid.Nil for anonymous requests.
func currentUser(r *http.Request) uuid.UUID {
	id, _ := middleware.UserIDFrom(r.Context())
	return id
}
