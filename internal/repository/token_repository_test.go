package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/madshoots/club-api/internal/store"
)

func TestRefreshRotation(t *testing.T) {
	r := NewTokenRepo(store.NewMemory())
	ctx := context.Background()
	exp := time.Now().UTC().Add(time.Hour)

	require.NoError(t, r.StoreRefresh(ctx, "ana@club.es", "hash-1", exp))

	email, err := r.ConsumeRefresh(ctx, "hash-1")
	require.NoError(t, err)
	assert.Equal(t, "ana@club.es", email)

	// Consuming deletes: the same hash cannot be replayed.
	_, err = r.ConsumeRefresh(ctx, "hash-1")
	assert.ErrorIs(t, err, ErrRefreshInvalid)
}

func TestRefreshExpired(t *testing.T) {
	r := NewTokenRepo(store.NewMemory())
	ctx := context.Background()

	require.NoError(t, r.StoreRefresh(ctx, "ana@club.es", "hash-1", time.Now().UTC().Add(-time.Minute)))

	_, err := r.ConsumeRefresh(ctx, "hash-1")
	assert.ErrorIs(t, err, ErrRefreshInvalid)
}

func TestRefreshDelete(t *testing.T) {
	r := NewTokenRepo(store.NewMemory())
	ctx := context.Background()

	require.NoError(t, r.StoreRefresh(ctx, "ana@club.es", "hash-1", time.Now().UTC().Add(time.Hour)))
	require.NoError(t, r.DeleteRefresh(ctx, "hash-1"))

	_, err := r.ConsumeRefresh(ctx, "hash-1")
	assert.ErrorIs(t, err, ErrRefreshInvalid)

	// Deleting an absent hash is a no-op.
	require.NoError(t, r.DeleteRefresh(ctx, "missing"))
}
