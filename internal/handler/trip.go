package handler

import (
	"net/http"

	"github.com/pkordes/trip-planner/backend/internal/domain"
	"github.com/pkordes/trip-planner/backend/internal/service"
)

// TripDetailResponse is a trip with its days and the sum of activity costs.
type TripDetailResponse struct {
	service.TripDetail
	TotalCost float64 `json:"total_cost"`
}

func newTripDetailResponse(d service.TripDetail) TripDetailResponse {
	if d.Days == nil {
		d.Days = []domain.ItineraryDay{}
	}
	return TripDetailResponse{TripDetail: d, TotalCost: d.TotalCost()}
}

// StoriesResponse is the body of GET /trips/{id}/stories.
type StoriesResponse struct {
	Stories []domain.Story `json:"stories"`
	Sample  bool           `json:"sample"`
}

// Pagination echoes the page that was served.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// TripListResponse is the body of GET /me/trips.
type TripListResponse struct {
	Data       []domain.Trip `json:"data"`
	Pagination Pagination    `json:"pagination"`
}

// GetTrip handles GET /trips/{id}. An unknown or unreadable trip is answered
// with the sample trip flagged "sample": true, never with 404.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, newTripDetailResponse(s.trips.Detail(r.Context(), id)))
}

// GetTripStories handles GET /trips/{id}/stories.
func (s *Server) GetTripStories(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	stories, sample := s.trips.Stories(r.Context(), id)
	writeJSON(w, http.StatusOK, StoriesResponse{Stories: stories, Sample: sample})
}

// GetActivity handles GET /itineraries/{dayId}/activities/{index}.
func (s *Server) GetActivity(w http.ResponseWriter, r *http.Request) {
	dayID, ok := pathUUID(w, r, "dayId")
	if !ok {
		return
	}
	index, ok := pathInt(w, r, "index")
	if !ok {
		return
	}
	view, err := s.trips.Activity(r.Context(), dayID, index)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// ListMyTrips handles GET /me/trips.
// Supports ?page= and ?limit= (defaults: page=1, limit=6, max=100).
func (s *Server) ListMyTrips(w http.ResponseWriter, r *http.Request) {
	page, ok := queryInt(w, r, "page")
	if !ok {
		return
	}
	limit, ok := queryInt(w, r, "limit")
	if !ok {
		return
	}
	params := domain.NewPaginationParams(page, limit)
	trips := s.trips.Recent(r.Context(), currentUser(r), params)
	writeJSON(w, http.StatusOK, TripListResponse{
		Data:       trips,
		Pagination: Pagination{Page: params.Page, Limit: params.Limit},
	})
}
