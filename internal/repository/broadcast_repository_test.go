package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/madshoots/club-api/internal/store"
)

func TestBroadcastLifecycle(t *testing.T) {
	r := NewBroadcastRepo(store.NewMemory())
	ctx := context.Background()

	msg, err := r.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, "", msg)

	require.NoError(t, r.Publish(ctx, "Lluvia: la sesión se mueve al sábado"))
	msg, err = r.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Lluvia: la sesión se mueve al sábado", msg)

	// Publishing replaces; there is only ever one message.
	require.NoError(t, r.Publish(ctx, "Nueva ubicación: Plaza Mayor"))
	msg, err = r.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Nueva ubicación: Plaza Mayor", msg)

	require.NoError(t, r.Clear(ctx))
	msg, err = r.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, "", msg)

	// Clearing again is a no-op.
	require.NoError(t, r.Clear(ctx))
}

func TestBroadcastRejectsBlank(t *testing.T) {
	r := NewBroadcastRepo(store.NewMemory())
	assert.ErrorIs(t, r.Publish(context.Background(), "   "), ErrValidation)
}
