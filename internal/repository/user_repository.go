package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/madshoots/club-api/internal/model"
	"github.com/madshoots/club-api/internal/store"
	"github.com/madshoots/club-api/internal/utils"
)

// UserRepo is the user directory: the exclusive owner of member
// records.  The booking orchestrator never mutates user storage
// directly; it goes through RecordBooking, which applies the three
// causally linked mutations (loyalty counter, booked-session set,
// history) as one guarded step.
type UserRepo struct {
	mu    sync.Mutex
	store store.Store
}

// NewUserRepo returns a UserRepo bound to the given store.
func NewUserRepo(st store.Store) *UserRepo {
	return &UserRepo{store: st}
}

// ProfileUpdate carries optional field updates; nil pointers leave the
// stored value untouched.
type ProfileUpdate struct {
	Name      *string
	RealName  *string
	Instagram *string
	Phone     *string
}

// Create registers a new member with a bcrypt-hashed password and
// returns the stored record.  Emails are normalized to lower case and
// must be unique.
func (r *UserRepo) Create(ctx context.Context, email, password, name, phone, role string, cost int) (model.User, error) {
	email = normalizeEmail(email)
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return model.User{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.load(ctx)
	if err != nil {
		return model.User{}, err
	}
	if findUser(users, email) != -1 {
		return model.User{}, ErrEmailExists
	}
	u := model.User{
		Email:            email,
		PasswordHash:     hash,
		Name:             strings.TrimSpace(name),
		Phone:            strings.TrimSpace(phone),
		Role:             role,
		BookedSessionIDs: []int64{},
		BookingHistory:   []model.BookingRecord{},
		CreatedAt:        time.Now().UTC(),
	}
	users = append(users, u)
	if err := saveJSON(ctx, r.store, keyUsers, users); err != nil {
		return model.User{}, err
	}
	return u, nil
}

// FindByEmail returns the member record or ErrUserNotFound.
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.load(ctx)
	if err != nil {
		return model.User{}, err
	}
	idx := findUser(users, normalizeEmail(email))
	if idx == -1 {
		return model.User{}, ErrUserNotFound
	}
	return users[idx], nil
}

// ListAll returns every member in registration order.  Consumed by the
// admin tooling (attendee lists).
func (r *UserRepo) ListAll(ctx context.Context) ([]model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load(ctx)
}

// UpdateFields applies a partial profile update and returns the new
// record.
func (r *UserRepo) UpdateFields(ctx context.Context, email string, upd ProfileUpdate) (model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.load(ctx)
	if err != nil {
		return model.User{}, err
	}
	idx := findUser(users, normalizeEmail(email))
	if idx == -1 {
		return model.User{}, ErrUserNotFound
	}
	u := &users[idx]
	if upd.Name != nil {
		u.Name = strings.TrimSpace(*upd.Name)
	}
	if upd.RealName != nil {
		u.RealName = strings.TrimSpace(*upd.RealName)
	}
	if upd.Instagram != nil {
		u.Instagram = strings.TrimSpace(*upd.Instagram)
	}
	if upd.Phone != nil {
		u.Phone = strings.TrimSpace(*upd.Phone)
	}
	if err := saveJSON(ctx, r.store, keyUsers, users); err != nil {
		return model.User{}, err
	}
	return *u, nil
}

// RecordBooking appends a booking to the member's record: the loyalty
// counter increments by exactly one, the session id joins the
// booked-session set and a history line is written, all under the
// directory lock so the three mutations are never observed half
// applied.  A duplicate session id rejects with ErrAlreadyBooked and
// mutates nothing.
func (r *UserRepo) RecordBooking(ctx context.Context, email string, sessionID int64, tier model.Tier, at time.Time) (model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.load(ctx)
	if err != nil {
		return model.User{}, err
	}
	idx := findUser(users, normalizeEmail(email))
	if idx == -1 {
		return model.User{}, ErrUserNotFound
	}
	u := &users[idx]
	if u.HasBooked(sessionID) {
		return model.User{}, ErrAlreadyBooked
	}
	u.SessionsCompleted++
	u.BookedSessionIDs = append(u.BookedSessionIDs, sessionID)
	u.BookingHistory = append(u.BookingHistory, model.BookingRecord{
		SessionID: sessionID,
		Tier:      tier,
		BookedAt:  at,
	})
	if err := saveJSON(ctx, r.store, keyUsers, users); err != nil {
		return model.User{}, err
	}
	return *u, nil
}

func (r *UserRepo) load(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if _, err := loadJSON(ctx, r.store, keyUsers, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func findUser(users []model.User, email string) int {
	for i := range users {
		if users[i].Email == email {
			return i
		}
	}
	return -1
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
