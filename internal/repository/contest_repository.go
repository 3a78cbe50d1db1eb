package repository

import (
	"context"
	"strconv"
	"sync"

	"github.com/madshoots/club-api/internal/model"
	"github.com/madshoots/club-api/internal/store"
)

// ContestRepo owns contest entries.  Entries are keyed by session id
// independently of the session record itself, so they survive even if
// the session later drops off the agenda.
type ContestRepo struct {
	mu    sync.Mutex
	store store.Store
}

// NewContestRepo returns a ContestRepo bound to the given store.
func NewContestRepo(st store.Store) *ContestRepo {
	return &ContestRepo{store: st}
}

// EntriesFor returns the stored entries for a session, newest first.
// A session without entries yields an empty slice.
func (r *ContestRepo) EntriesFor(ctx context.Context, sessionID int64) ([]model.ContestEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	list := entries[key(sessionID)]
	if list == nil {
		list = []model.ContestEntry{}
	}
	return list, nil
}

// SubmitEntry prepends a new entry to the session's contest.  A member
// may enter each contest once: a second submission rejects with
// ErrDuplicateEntry and stores nothing.
func (r *ContestRepo) SubmitEntry(ctx context.Context, sessionID int64, entry model.ContestEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries, err := r.load(ctx)
	if err != nil {
		return err
	}
	k := key(sessionID)
	for _, e := range entries[k] {
		if e.Email == entry.Email {
			return ErrDuplicateEntry
		}
	}
	entries[k] = append([]model.ContestEntry{entry}, entries[k]...)
	return saveJSON(ctx, r.store, keyContestEntries, entries)
}

// Vote increments an entry's vote count.  There is deliberately no
// duplicate-vote guard: any caller may vote repeatedly until the
// product owner decides otherwise.
func (r *ContestRepo) Vote(ctx context.Context, sessionID int64, entryID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries, err := r.load(ctx)
	if err != nil {
		return err
	}
	k := key(sessionID)
	for i := range entries[k] {
		if entries[k][i].ID == entryID {
			entries[k][i].Votes++
			return saveJSON(ctx, r.store, keyContestEntries, entries)
		}
	}
	return ErrEntryNotFound
}

func (r *ContestRepo) load(ctx context.Context) (map[string][]model.ContestEntry, error) {
	entries := make(map[string][]model.ContestEntry)
	if _, err := loadJSON(ctx, r.store, keyContestEntries, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// key renders the session id as the map key; JSON objects require
// string keys.
func key(sessionID int64) string {
	return strconv.FormatInt(sessionID, 10)
}
