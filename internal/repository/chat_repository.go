package repository

import (
	"context"
	"sync"

	"github.com/madshoots/club-api/internal/model"
	"github.com/madshoots/club-api/internal/store"
)

// chatHistoryCap bounds how many turns are kept per member; older turns
// roll off so one chatty member cannot grow the key without limit.
const chatHistoryCap = 100

// ChatRepo persists each member's conversation with the assistant,
// keyed by email.
type ChatRepo struct {
	mu    sync.Mutex
	store store.Store
}

// NewChatRepo returns a ChatRepo bound to the given store.
func NewChatRepo(st store.Store) *ChatRepo {
	return &ChatRepo{store: st}
}

// History returns the member's conversation in chronological order.  A
// member without history yields an empty slice.
func (r *ChatRepo) History(ctx context.Context, email string) ([]model.ChatMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	history := all[normalizeEmail(email)]
	if history == nil {
		history = []model.ChatMessage{}
	}
	return history, nil
}

// Append adds turns to the member's conversation, trimming the oldest
// beyond the cap.
func (r *ChatRepo) Append(ctx context.Context, email string, msgs ...model.ChatMessage) error {
	if len(msgs) == 0 {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	all, err := r.load(ctx)
	if err != nil {
		return err
	}
	key := normalizeEmail(email)
	history := append(all[key], msgs...)
	if len(history) > chatHistoryCap {
		history = history[len(history)-chatHistoryCap:]
	}
	all[key] = history
	return saveJSON(ctx, r.store, keyChatHistory, all)
}

func (r *ChatRepo) load(ctx context.Context) (map[string][]model.ChatMessage, error) {
	all := make(map[string][]model.ChatMessage)
	if _, err := loadJSON(ctx, r.store, keyChatHistory, &all); err != nil {
		return nil, err
	}
	return all, nil
}
