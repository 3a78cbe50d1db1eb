package repository

import (
	"context"
	"encoding/json"

	"github.com/madshoots/club-api/internal/store"
)

// Storage keys.  Every collection serializes independently as JSON
// under one key; there is no cross-key transaction.
const (
	keySessions       = "club:sessions"
	keyCodes          = "club:codes"
	keyPasswords      = "club:passwords"
	keyUsers          = "club:users"
	keyBroadcast      = "club:broadcast"
	keyProposals      = "club:proposals"
	keyContestEntries = "club:contest_entries"
	keyChatHistory    = "club:chat_history"
)

// loadJSON unmarshals the value under key into out.  A missing key is
// not an error; out is left at its zero value and found is false.
func loadJSON(ctx context.Context, s store.Store, key string, out interface{}) (bool, error) {
	raw, found, err := s.Get(ctx, key)
	if err != nil {
		return false, err
	}
	if !found {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, err
	}
	return true, nil
}

// saveJSON marshals v and writes it under key.
func saveJSON(ctx context.Context, s store.Store, key string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.Set(ctx, key, raw)
}
