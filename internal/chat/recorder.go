package chat

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/pkordes/trip-planner/backend/internal/domain"
)

// recorderTimeout bounds a single chat-log write.
const recorderTimeout = 5 * time.Second

// Recorder receives chat exchanges for persistence. Record must not block
// and must not fail the caller.
type Recorder interface {
	Record(ctx context.Context, entries ...domain.ChatLogEntry)
}

// NopRecorder discards everything.
type NopRecorder struct{}

func (NopRecorder) Record(context.Context, ...domain.ChatLogEntry) {}

// LogWriter is the storage behind a BackgroundRecorder.
type LogWriter interface {
	Insert(ctx context.Context, entries ...domain.ChatLogEntry) error
}

// BackgroundRecorder queues exchanges and writes them from a single worker
// goroutine. A full queue or a failed write is logged and dropped.
type BackgroundRecorder struct {
	writer LogWriter
	log    *slog.Logger
	queue  chan []domain.ChatLogEntry

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewBackgroundRecorder returns a recorder with room for size pending batches.
// Call Start before use and Close on shutdown.
func NewBackgroundRecorder(w LogWriter, size int, log *slog.Logger) *BackgroundRecorder {
	if size < 1 {
		size = 1
	}
	return &BackgroundRecorder{
		writer: w,
		log:    log.With("component", "chat_recorder"),
		queue:  make(chan []domain.ChatLogEntry, size),
	}
}

// Start launches the worker. ctx bounds every write in addition to the
// per-write timeout.
func (r *BackgroundRecorder) Start(ctx context.Context) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		for batch := range r.queue {
			r.write(ctx, batch)
		}
	}()
}

func (r *BackgroundRecorder) write(ctx context.Context, batch []domain.ChatLogEntry) {
	ctx, cancel := context.WithTimeout(ctx, recorderTimeout)
	defer cancel()
	if err := r.writer.Insert(ctx, batch...); err != nil {
		r.log.Warn("chat log write failed", "entries", len(batch), "error", err)
	}
}

// Record enqueues entries without blocking.
func (r *BackgroundRecorder) Record(ctx context.Context, entries ...domain.ChatLogEntry) {
	if len(entries) == 0 {
		return
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		r.log.WarnContext(ctx, "chat log dropped after shutdown", "entries", len(entries))
		return
	}
	select {
	case r.queue <- entries:
	default:
		r.log.WarnContext(ctx, "chat log queue full, dropping exchange", "entries", len(entries))
	}
}

// Close stops accepting entries and waits for queued writes to finish.
func (r *BackgroundRecorder) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	close(r.queue)
	r.mu.Unlock()
	r.wg.Wait()
}
