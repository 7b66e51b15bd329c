package chat_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-planner/backend/internal/chat"
	"github.com/pkordes/trip-planner/backend/internal/domain"
)

func TestNewTranscript_StartsWithGreeting(t *testing.T) {
	tr := chat.NewTranscript()

	require.Equal(t, 1, tr.Count())
	first, ok := tr.At(0)
	require.True(t, ok)
	assert.Equal(t, "1", first.ID)
	assert.Equal(t, domain.RoleAssistant, first.Role)
	assert.Equal(t, chat.Greeting, first.Content)
}

func TestTranscript_AppendKeepsOrder(t *testing.T) {
	tr := chat.NewTranscript()

	const n = 25
	for i := range n {
		tr.Append(domain.Message{Role: domain.RoleUser, Content: fmt.Sprintf("msg %d", i)})
	}

	require.Equal(t, n+1, tr.Count())
	for i := range n {
		got, ok := tr.At(i + 1)
		require.True(t, ok)
		assert.Equal(t, fmt.Sprintf("msg %d", i), got.Content)
		assert.Equal(t, fmt.Sprint(i+2), got.ID)
		assert.False(t, got.CreatedAt.IsZero())
	}

	_, ok := tr.At(n + 1)
	assert.False(t, ok)
	_, ok = tr.At(-1)
	assert.False(t, ok)
}

func TestTranscript_EntriesIsACopy(t *testing.T) {
	tr := chat.NewTranscript()

	entries := tr.Entries()
	entries[0].Content = "changed"

	first, _ := tr.At(0)
	assert.Equal(t, chat.Greeting, first.Content)
}
