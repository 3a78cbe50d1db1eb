package repository

import (
	"context"
	"crypto/rand"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/madshoots/club-api/internal/model"
	"github.com/madshoots/club-api/internal/store"
)

// codeAlphabet excludes visually ambiguous symbols (0/O, 1/I) so a code
// read aloud or typed from a chat message cannot be mistranscribed.
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// codePrefix brands every generated code; the suffix is four random
// characters from codeAlphabet.
const codePrefix = "MS-"

const codeSuffixLen = 4

// AccessCodeRepo owns the master passwords and the set of one-time
// codes, and classifies redemption attempts.  All mutations run under
// the repo mutex so a code can be consumed exactly once.
type AccessCodeRepo struct {
	mu    sync.Mutex
	store store.Store

	// defaults seed the passwords before the admin ever sets them.
	defaultBooking string
	defaultReward  string
}

// NewAccessCodeRepo returns an AccessCodeRepo bound to the given store.
// The default passwords apply until the admin overwrites them.
func NewAccessCodeRepo(st store.Store, defaultBooking, defaultReward string) *AccessCodeRepo {
	return &AccessCodeRepo{store: st, defaultBooking: defaultBooking, defaultReward: defaultReward}
}

// IssueCode generates a fresh one-time code, stores it active and
// returns it.  Generation retries on the (unlikely) collision with any
// existing code, used ones included, so a code string is never reused.
func (r *AccessCodeRepo) IssueCode(ctx context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	codes, err := r.loadCodes(ctx)
	if err != nil {
		return "", err
	}
	var code string
	for {
		code, err = randomCode()
		if err != nil {
			return "", err
		}
		if findCode(codes, code) == -1 {
			break
		}
	}
	// Newest codes first, mirroring the admin panel listing.
	codes = append([]model.OneTimeCode{{
		Code:      code,
		Status:    model.CodeStatusActive,
		CreatedAt: time.Now().UTC(),
	}}, codes...)
	if err := saveJSON(ctx, r.store, keyCodes, codes); err != nil {
		return "", err
	}
	return code, nil
}

// Revoke removes a code regardless of status.  Revoking an absent code
// is a no-op.
func (r *AccessCodeRepo) Revoke(ctx context.Context, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	codes, err := r.loadCodes(ctx)
	if err != nil {
		return err
	}
	idx := findCode(codes, code)
	if idx == -1 {
		return nil
	}
	codes = append(codes[:idx], codes[idx+1:]...)
	return saveJSON(ctx, r.store, keyCodes, codes)
}

// ListCodes returns every generated code with its status, newest first.
func (r *AccessCodeRepo) ListCodes(ctx context.Context) ([]model.OneTimeCode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loadCodes(ctx)
}

// Redeem evaluates a redemption input in strict priority order:
//
//  1. an active one-time code: consumed on the spot (terminal);
//     a used one rejects with "already consumed";
//  2. the booking password: standard tier, reusable;
//  3. the reward password: vip tier, reusable;
//  4. anything else: rejected as invalid.
//
// One-time codes are checked before the reusable passwords so an
// issued code can never silently match a password string.
func (r *AccessCodeRepo) Redeem(ctx context.Context, input string) (model.Redemption, error) {
	input = strings.TrimSpace(input)

	r.mu.Lock()
	defer r.mu.Unlock()

	codes, err := r.loadCodes(ctx)
	if err != nil {
		return model.Redemption{}, err
	}
	if idx := findCode(codes, input); idx != -1 {
		if codes[idx].Status == model.CodeStatusUsed {
			return model.Redemption{Accepted: false, Reason: "already consumed"}, nil
		}
		codes[idx].Status = model.CodeStatusUsed
		if err := saveJSON(ctx, r.store, keyCodes, codes); err != nil {
			return model.Redemption{}, err
		}
		return model.Redemption{Accepted: true, Tier: model.TierStandard}, nil
	}

	pw, err := r.loadPasswords(ctx)
	if err != nil {
		return model.Redemption{}, err
	}
	switch input {
	case pw.BookingPassword:
		return model.Redemption{Accepted: true, Tier: model.TierStandard}, nil
	case pw.RewardPassword:
		return model.Redemption{Accepted: true, Tier: model.TierVIP}, nil
	}
	return model.Redemption{Accepted: false, Reason: "invalid"}, nil
}

// Passwords returns the current master passwords.
func (r *AccessCodeRepo) Passwords(ctx context.Context) (model.MasterPasswords, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loadPasswords(ctx)
}

// SetBookingPassword replaces the standard-tier master password.
func (r *AccessCodeRepo) SetBookingPassword(ctx context.Context, pass string) error {
	return r.setPassword(ctx, func(pw *model.MasterPasswords) { pw.BookingPassword = pass })
}

// SetRewardPassword replaces the loyalty-tier master password.
func (r *AccessCodeRepo) SetRewardPassword(ctx context.Context, pass string) error {
	return r.setPassword(ctx, func(pw *model.MasterPasswords) { pw.RewardPassword = pass })
}

func (r *AccessCodeRepo) setPassword(ctx context.Context, apply func(*model.MasterPasswords)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	pw, err := r.loadPasswords(ctx)
	if err != nil {
		return err
	}
	apply(&pw)
	return saveJSON(ctx, r.store, keyPasswords, pw)
}

func (r *AccessCodeRepo) loadCodes(ctx context.Context) ([]model.OneTimeCode, error) {
	var codes []model.OneTimeCode
	if _, err := loadJSON(ctx, r.store, keyCodes, &codes); err != nil {
		return nil, err
	}
	return codes, nil
}

func (r *AccessCodeRepo) loadPasswords(ctx context.Context) (model.MasterPasswords, error) {
	pw := model.MasterPasswords{
		BookingPassword: r.defaultBooking,
		RewardPassword:  r.defaultReward,
	}
	if _, err := loadJSON(ctx, r.store, keyPasswords, &pw); err != nil {
		return model.MasterPasswords{}, err
	}
	return pw, nil
}

func findCode(codes []model.OneTimeCode, code string) int {
	for i := range codes {
		if codes[i].Code == code {
			return i
		}
	}
	return -1
}

// randomCode draws the four-character suffix with crypto/rand.
func randomCode() (string, error) {
	b := make([]byte, codeSuffixLen)
	max := big.NewInt(int64(len(codeAlphabet)))
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = codeAlphabet[n.Int64()]
	}
	return codePrefix + string(b), nil
}
