package handler

import "net/http"

// MapsConfigResponse is the body of GET /maps/config.
type MapsConfigResponse struct {
	APIKey string `json:"api_key"`
}

// GetMapsConfig handles GET /maps/config. Without a configured key it
// answers 503 so clients hide the map and keep everything else working.
func (s *Server) GetMapsConfig(w http.ResponseWriter, _ *http.Request) {
	if s.mapsKey == "" {
		writeError(w, http.StatusServiceUnavailable, "maps_unavailable", "map integration is not configured")
		return
	}
	writeJSON(w, http.StatusOK, MapsConfigResponse{APIKey: s.mapsKey})
}
