package chat_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-planner/backend/internal/chat"
)

func TestRegistry_CreateAndGet(t *testing.T) {
	reg := chat.NewRegistry(&mockPlanner{}, nil, time.Hour, discardLogger())
	owner := uuid.New()

	s := reg.Create(owner)

	got, ok := reg.Get(s.ID)
	require.True(t, ok)
	assert.Same(t, s, got)
	assert.Equal(t, owner, got.Owner())
	assert.Equal(t, 1, reg.Len())

	_, ok = reg.Get(uuid.New())
	assert.False(t, ok)
}

func TestRegistry_IdleSessionsExpire(t *testing.T) {
	reg := chat.NewRegistry(&mockPlanner{}, nil, 40*time.Millisecond, discardLogger())
	s := reg.Create(uuid.Nil)

	time.Sleep(100 * time.Millisecond)

	_, ok := reg.Get(s.ID)
	assert.False(t, ok)
}
