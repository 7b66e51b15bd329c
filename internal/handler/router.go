package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pkordes/trip-planner/backend/internal/middleware"
	"github.com/pkordes/trip-planner/backend/spec"
)

// RouterConfig holds the settings of the HTTP surface that are not handler
// dependencies.
type RouterConfig struct {
	CORSOrigins  []string
	MaxBodyBytes int64
	// ChatLimiter throttles message sends per client. Nil disables it.
	ChatLimiter *middleware.RateLimiter
	// TrustProxy takes the client address from X-Forwarded-For / X-Real-IP.
	// Only set it behind a proxy that overwrites those headers; otherwise
	// clients can pick their own rate-limit key.
	TrustProxy bool
	Log        *slog.Logger
}

// NewRouter mounts every route on a chi router.
//
// Middleware is applied in order: RequestID → RealIP (TrustProxy only) →
// Logger → Recoverer → CORS → body limit. The chat rate limiter keys clients
// by RemoteAddr, which without TrustProxy is the connection's peer.
func NewRouter(s *Server, cfg RouterConfig) http.Handler {
	log := cfg.Log
	if log == nil {
		log = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	if cfg.TrustProxy {
		r.Use(chimiddleware.RealIP)
	}
	r.Use(middleware.NewSlogLogger(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	if cfg.MaxBodyBytes > 0 {
		r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))
	}

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", serveOpenAPI)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	r.Get("/maps/config", s.GetMapsConfig)

	r.Post("/auth/signup", s.SignUp)
	r.Post("/auth/signin", s.SignIn)

	r.Get("/trips/{id}", s.GetTrip)
	r.Get("/trips/{id}/stories", s.GetTripStories)
	r.Get("/trips/{id}/export.pdf", s.ExportTripPDF)
	r.Get("/trips/{id}/export.ics", s.ExportTripCalendar)
	r.Get("/itineraries/{dayId}/activities/{index}", s.GetActivity)
	r.Get("/itineraries/{dayId}/export.pdf", s.ExportDayPDF)
	r.Post("/export/pdf", s.ExportTablePDF)

	r.Group(func(r chi.Router) {
		r.Use(middleware.OptionalUser(s.auth))
		r.Post("/chat/sessions", s.CreateChatSession)
		r.Get("/chat/sessions/{id}", s.GetChatSession)
		send := http.Handler(http.HandlerFunc(s.SendChatMessage))
		if cfg.ChatLimiter != nil {
			send = cfg.ChatLimiter.Limit(send)
		}
		r.Method(http.MethodPost, "/chat/sessions/{id}/messages", send)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireUser(s.auth))
		r.Post("/auth/signout", s.SignOut)
		r.Get("/me", s.GetMe)
		r.Get("/me/trips", s.ListMyTrips)
		r.Post("/chat/sessions/{id}/save", s.SaveChatSession)
	})

	return r
}

func serveOpenAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(spec.OpenAPI)
}
