package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/madshoots/club-api/internal/model"
	"github.com/madshoots/club-api/internal/store"
)

func TestChatHistoryPerMember(t *testing.T) {
	r := NewChatRepo(store.NewMemory())
	ctx := context.Background()

	history, err := r.History(ctx, "ana@club.es")
	require.NoError(t, err)
	assert.Empty(t, history)

	require.NoError(t, r.Append(ctx, "ana@club.es",
		model.ChatMessage{Role: "user", Text: "hola"},
		model.ChatMessage{Role: "model", Text: "¡Hola!"},
	))
	require.NoError(t, r.Append(ctx, "eva@club.es",
		model.ChatMessage{Role: "user", Text: "¿agenda?"},
	))

	history, err = r.History(ctx, "Ana@Club.ES") // casing normalized
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "hola", history[0].Text)
	assert.Equal(t, "model", history[1].Role)

	other, err := r.History(ctx, "eva@club.es")
	require.NoError(t, err)
	assert.Len(t, other, 1)
}

func TestChatHistoryCapped(t *testing.T) {
	r := NewChatRepo(store.NewMemory())
	ctx := context.Background()

	for i := 0; i < chatHistoryCap+20; i++ {
		require.NoError(t, r.Append(ctx, "ana@club.es", model.ChatMessage{Role: "user", Text: fmt.Sprintf("msg %d", i)}))
	}

	history, err := r.History(ctx, "ana@club.es")
	require.NoError(t, err)
	assert.Len(t, history, chatHistoryCap)
	// The oldest turns rolled off; the newest survives.
	assert.Equal(t, fmt.Sprintf("msg %d", chatHistoryCap+19), history[len(history)-1].Text)
}
