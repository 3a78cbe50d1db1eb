package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/madshoots/club-api/internal/model"
	"github.com/madshoots/club-api/internal/store"
	"github.com/madshoots/club-api/internal/utils"
)

const testBcryptCost = 4 // minimum cost keeps the tests fast

func newUserRepo() *UserRepo {
	return NewUserRepo(store.NewMemory())
}

func TestCreateNormalizesEmail(t *testing.T) {
	r := newUserRepo()
	ctx := context.Background()

	u, err := r.Create(ctx, "  Ana@Club.ES ", "secret", "Ana", "", model.RoleMember, testBcryptCost)
	require.NoError(t, err)
	assert.Equal(t, "ana@club.es", u.Email)
	assert.True(t, utils.VerifyPassword(u.PasswordHash, "secret"))

	// Lookup works through any casing of the same address.
	got, err := r.FindByEmail(ctx, "ANA@CLUB.ES")
	require.NoError(t, err)
	assert.Equal(t, u.Email, got.Email)
}

func TestCreateRejectsDuplicateEmail(t *testing.T) {
	r := newUserRepo()
	ctx := context.Background()

	_, err := r.Create(ctx, "ana@club.es", "secret", "Ana", "", model.RoleMember, testBcryptCost)
	require.NoError(t, err)
	_, err = r.Create(ctx, "Ana@club.es", "other", "Ana 2", "", model.RoleMember, testBcryptCost)
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestFindByEmailUnknown(t *testing.T) {
	r := newUserRepo()
	_, err := r.FindByEmail(context.Background(), "nadie@club.es")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdateFieldsPartial(t *testing.T) {
	r := newUserRepo()
	ctx := context.Background()

	_, err := r.Create(ctx, "ana@club.es", "secret", "Ana", "600111222", model.RoleMember, testBcryptCost)
	require.NoError(t, err)

	real := " Ana García "
	insta := "@anagarcia"
	u, err := r.UpdateFields(ctx, "ana@club.es", ProfileUpdate{RealName: &real, Instagram: &insta})
	require.NoError(t, err)

	assert.Equal(t, "Ana García", u.RealName)
	assert.Equal(t, "@anagarcia", u.Instagram)
	assert.Equal(t, "Ana", u.Name)          // untouched
	assert.Equal(t, "600111222", u.Phone)   // untouched
	assert.True(t, u.ProfileComplete())
}

func TestRecordBooking(t *testing.T) {
	r := newUserRepo()
	ctx := context.Background()

	_, err := r.Create(ctx, "ana@club.es", "secret", "Ana", "", model.RoleMember, testBcryptCost)
	require.NoError(t, err)

	at := time.Date(2025, time.June, 21, 17, 0, 0, 0, time.UTC)
	u, err := r.RecordBooking(ctx, "ana@club.es", 1001, model.TierStandard, at)
	require.NoError(t, err)

	assert.Equal(t, 1, u.SessionsCompleted)
	assert.Equal(t, []int64{1001}, u.BookedSessionIDs)
	require.Len(t, u.BookingHistory, 1)
	assert.Equal(t, int64(1001), u.BookingHistory[0].SessionID)
	assert.Equal(t, model.TierStandard, u.BookingHistory[0].Tier)
	assert.Equal(t, at, u.BookingHistory[0].BookedAt)
}

func TestRecordBookingRejectsDuplicate(t *testing.T) {
	r := newUserRepo()
	ctx := context.Background()

	_, err := r.Create(ctx, "ana@club.es", "secret", "Ana", "", model.RoleMember, testBcryptCost)
	require.NoError(t, err)

	at := time.Now().UTC()
	_, err = r.RecordBooking(ctx, "ana@club.es", 1001, model.TierStandard, at)
	require.NoError(t, err)
	_, err = r.RecordBooking(ctx, "ana@club.es", 1001, model.TierVIP, at)
	assert.ErrorIs(t, err, ErrAlreadyBooked)

	// Nothing mutated by the rejected attempt.
	u, err := r.FindByEmail(ctx, "ana@club.es")
	require.NoError(t, err)
	assert.Equal(t, 1, u.SessionsCompleted)
	assert.Len(t, u.BookingHistory, 1)
}

func TestRecordBookingUnknownUser(t *testing.T) {
	r := newUserRepo()
	_, err := r.RecordBooking(context.Background(), "nadie@club.es", 1, model.TierStandard, time.Now())
	assert.ErrorIs(t, err, ErrUserNotFound)
}
