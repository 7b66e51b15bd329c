package chat

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// Registry keeps live sessions in memory and forgets those idle for longer
// than the configured TTL. Sessions do not survive a restart.
type Registry struct {
	sessions *cache.Cache
	planner  Planner
	recorder Recorder
	log      *slog.Logger
}

// NewRegistry returns a registry whose sessions expire after ttl without use.
func NewRegistry(p Planner, rec Recorder, ttl time.Duration, log *slog.Logger) *Registry {
	return &Registry{
		sessions: cache.New(ttl, ttl/2),
		planner:  p,
		recorder: rec,
		log:      log.With("component", "chat"),
	}
}

// Create starts and stores a new session for owner (uuid.Nil if anonymous).
func (r *Registry) Create(owner uuid.UUID) *Session {
	s := NewSession(r.planner, r.recorder, owner, r.log)
	r.sessions.SetDefault(s.ID.String(), s)
	return s
}

// Get returns a live session and resets its idle timer.
func (r *Registry) Get(id uuid.UUID) (*Session, bool) {
	v, ok := r.sessions.Get(id.String())
	if !ok {
		return nil, false
	}
	s := v.(*Session)
	r.sessions.SetDefault(id.String(), s)
	return s, true
}

// Len returns the number of live sessions, expired ones possibly included
// until the next cleanup.
func (r *Registry) Len() int {
	return r.sessions.ItemCount()
}
