package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	limiterIdleTTL = 10 * time.Minute
	limiterSweep   = time.Minute
)

// RateLimiter hands out one token bucket per client key. Buckets unused for
// limiterIdleTTL are swept by a background goroutine until Stop is called.
type RateLimiter struct {
	rps   rate.Limit
	burst int

	mu   sync.Mutex
	m    map[string]*limiterEntry
	stop chan struct{}
	once sync.Once
}

type limiterEntry struct {
	l        *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter returns a limiter allowing rps requests per second per key
// with bursts of up to burst. Non-positive values fall back to 1 and 5.
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	if rps <= 0 {
		rps = 1
	}
	if burst <= 0 {
		burst = 5
	}
	rl := &RateLimiter{
		rps:   rate.Limit(rps),
		burst: burst,
		m:     make(map[string]*limiterEntry),
		stop:  make(chan struct{}),
	}
	go rl.sweep()
	return rl
}

// Stop ends the sweeper goroutine. Safe to call more than once.
func (rl *RateLimiter) Stop() {
	rl.once.Do(func() { close(rl.stop) })
}

// Allow reports whether key may make a request now.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	e, ok := rl.m[key]
	if !ok {
		e = &limiterEntry{l: rate.NewLimiter(rl.rps, rl.burst)}
		rl.m[key] = e
	}
	e.lastSeen = time.Now()
	rl.mu.Unlock()
	return e.l.Allow()
}

// Limit rejects requests over the client's budget with 429 and a
// Retry-After hint. Clients are keyed by remote IP.
func (rl *RateLimiter) Limit(next http.Handler) http.Handler {
	retryAfter := strconv.Itoa(int(math.Ceil(1 / float64(rl.rps))))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.Allow(clientIP(r)) {
			w.Header().Set("Retry-After", retryAfter)
			writeError(w, http.StatusTooManyRequests, "rate_limited", "too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) sweep() {
	ticker := time.NewTicker(limiterSweep)
	defer ticker.Stop()
	for {
		select {
		case <-rl.stop:
			return
		case now := <-ticker.C:
			cutoff := now.Add(-limiterIdleTTL)
			rl.mu.Lock()
			for k, e := range rl.m {
				if e.lastSeen.Before(cutoff) {
					delete(rl.m, k)
				}
			}
			rl.mu.Unlock()
		}
	}
}

// clientIP strips the port from RemoteAddr. chi's RealIP middleware, when
// wired first, has already replaced RemoteAddr with the forwarded address.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
