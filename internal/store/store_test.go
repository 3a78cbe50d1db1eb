package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryGetSetDelete(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	_, found, err := m.Get(ctx, "club:missing")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, m.Set(ctx, "club:key", []byte(`{"a":1}`)))
	v, found, err := m.Get(ctx, "club:key")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte(`{"a":1}`), v)

	require.NoError(t, m.Delete(ctx, "club:key"))
	_, found, err = m.Get(ctx, "club:key")
	require.NoError(t, err)
	assert.False(t, found)

	// Deleting an absent key is a no-op.
	require.NoError(t, m.Delete(ctx, "club:missing"))
}

func TestMemoryCopiesValues(t *testing.T) {
	// The store must not alias caller buffers; mutating them after
	// Set/Get cannot corrupt stored state.
	m := NewMemory()
	ctx := context.Background()

	buf := []byte("original")
	require.NoError(t, m.Set(ctx, "k", buf))
	buf[0] = 'X'

	v, _, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("original"), v)

	v[0] = 'Y'
	again, _, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("original"), again)
}
