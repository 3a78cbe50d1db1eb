package repository

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/madshoots/club-api/internal/store"
)

// ErrRefreshInvalid is returned when a refresh token is unknown,
// already rotated, or expired.
var ErrRefreshInvalid = errors.New("invalid refresh token")

const keyRefreshTokens = "club:refresh_tokens"

// refreshRecord is the stored side of a refresh token.  Only the
// SHA-256 hash of the raw token reaches this table.
type refreshRecord struct {
	Email string    `json:"email"`
	Exp   time.Time `json:"exp"`
}

// TokenRepo persists refresh-token hashes keyed by hash.  Expired
// records are pruned opportunistically on every write.
type TokenRepo struct {
	mu    sync.Mutex
	store store.Store
}

// NewTokenRepo returns a TokenRepo bound to the given store.
func NewTokenRepo(st store.Store) *TokenRepo {
	return &TokenRepo{store: st}
}

// StoreRefresh saves a refresh-token hash for the member.
func (r *TokenRepo) StoreRefresh(ctx context.Context, email, hash string, exp time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.load(ctx)
	if err != nil {
		return err
	}
	pruneExpired(records)
	records[hash] = refreshRecord{Email: email, Exp: exp}
	return saveJSON(ctx, r.store, keyRefreshTokens, records)
}

// ConsumeRefresh validates a refresh-token hash, removes it (rotation)
// and returns the member email it belongs to.
func (r *TokenRepo) ConsumeRefresh(ctx context.Context, hash string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.load(ctx)
	if err != nil {
		return "", err
	}
	rec, ok := records[hash]
	if !ok || time.Now().UTC().After(rec.Exp) {
		return "", ErrRefreshInvalid
	}
	delete(records, hash)
	pruneExpired(records)
	if err := saveJSON(ctx, r.store, keyRefreshTokens, records); err != nil {
		return "", err
	}
	return rec.Email, nil
}

// DeleteRefresh removes a refresh-token hash (logout).  Removing an
// absent hash is a no-op.
func (r *TokenRepo) DeleteRefresh(ctx context.Context, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.load(ctx)
	if err != nil {
		return err
	}
	delete(records, hash)
	return saveJSON(ctx, r.store, keyRefreshTokens, records)
}

func (r *TokenRepo) load(ctx context.Context) (map[string]refreshRecord, error) {
	records := make(map[string]refreshRecord)
	if _, err := loadJSON(ctx, r.store, keyRefreshTokens, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func pruneExpired(records map[string]refreshRecord) {
	now := time.Now().UTC()
	for h, rec := range records {
		if now.After(rec.Exp) {
			delete(records, h)
		}
	}
}
