package repo

import (
	"context"
	"fmt"

	"github.com/pkordes/trip-planner/backend/internal/domain"
)

// ChatLogRepo appends chat exchanges to the chat_messages table.
type ChatLogRepo interface {
	// Insert writes all entries in a single statement. Inserting nothing is a no-op.
	Insert(ctx context.Context, entries ...domain.ChatLogEntry) error
}

type pgChatLogRepo struct {
	db db
}

// NewChatLogRepo constructs a ChatLogRepo backed by the provided db connection.
func NewChatLogRepo(db db) ChatLogRepo {
	return &pgChatLogRepo{db: db}
}

func (r *pgChatLogRepo) Insert(ctx context.Context, entries ...domain.ChatLogEntry) error {
	if len(entries) == 0 {
		return nil
	}

	b := psql.Insert("chat_messages").Columns("user_id", "session_id", "role", "content", "created_at")
	for _, e := range entries {
		b = b.Values(e.UserID, e.SessionID, string(e.Role), e.Content, e.CreatedAt)
	}
	q, args, err := b.ToSql()
	if err != nil {
		return fmt.Errorf("repo.ChatLogRepo.Insert: build: %w", err)
	}

	if _, err := r.db.Exec(ctx, q, args...); err != nil {
		return fmt.Errorf("repo.ChatLogRepo.Insert: %w", err)
	}
	return nil
}
