package repository

import (
	"context"
	"strings"
	"sync"

	"github.com/madshoots/club-api/internal/store"
)

// BroadcastRepo owns the single urgent broadcast message the admin can
// publish to every member (weather warnings, location changes).  Only
// one message exists at a time; publishing replaces it and clearing
// removes it.
type BroadcastRepo struct {
	mu    sync.Mutex
	store store.Store
}

// NewBroadcastRepo returns a BroadcastRepo bound to the given store.
func NewBroadcastRepo(st store.Store) *BroadcastRepo {
	return &BroadcastRepo{store: st}
}

// Current returns the active message, or "" when none is published.
func (r *BroadcastRepo) Current(ctx context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var msg string
	if _, err := loadJSON(ctx, r.store, keyBroadcast, &msg); err != nil {
		return "", err
	}
	return msg, nil
}

// Publish replaces the broadcast message.  A blank message rejects
// with ErrValidation; use Clear to take a message down.
func (r *BroadcastRepo) Publish(ctx context.Context, msg string) error {
	msg = strings.TrimSpace(msg)
	if msg == "" {
		return ErrValidation
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return saveJSON(ctx, r.store, keyBroadcast, msg)
}

// Clear removes the broadcast message; clearing when none exists is a
// no-op.
func (r *BroadcastRepo) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store.Delete(ctx, keyBroadcast)
}
