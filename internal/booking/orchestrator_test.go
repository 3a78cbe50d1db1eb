package booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/madshoots/club-api/internal/model"
	"github.com/madshoots/club-api/internal/repository"
	"github.com/madshoots/club-api/internal/store"
)

const testBcryptCost = 4

type fixture struct {
	sessions *repository.SessionRepo
	codes    *repository.AccessCodeRepo
	users    *repository.UserRepo
	orch     *Orchestrator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st := store.NewMemory()
	sessions := repository.NewSessionRepo(st, repository.SessionDefaults{
		Capacity: 10,
		PriceEUR: 15,
		Location: "Madrid",
	}, 3*time.Hour)
	codes := repository.NewAccessCodeRepo(st, "club2025", "premio2025")
	users := repository.NewUserRepo(st)
	return &fixture{
		sessions: sessions,
		codes:    codes,
		users:    users,
		orch:     New(sessions, codes, users, 10),
	}
}

// addMember registers a member with a complete profile and the given
// number of completed sessions.
func (f *fixture) addMember(t *testing.T, email string, completed int) {
	t.Helper()
	ctx := context.Background()
	_, err := f.users.Create(ctx, email, "secret", "Ana", "", model.RoleMember, testBcryptCost)
	require.NoError(t, err)
	real, insta := "Ana García", "@anagarcia"
	_, err = f.users.UpdateFields(ctx, email, repository.ProfileUpdate{RealName: &real, Instagram: &insta})
	require.NoError(t, err)
	for i := 0; i < completed; i++ {
		_, err := f.users.RecordBooking(ctx, email, int64(i+1), model.TierStandard, time.Now().UTC())
		require.NoError(t, err)
	}
}

func (f *fixture) addSession(t *testing.T, capacity int) model.Session {
	t.Helper()
	s, err := f.sessions.Create(context.Background(), model.SessionDraft{
		Title:    "Retrato urbano",
		Capacity: capacity,
	})
	require.NoError(t, err)
	return s
}

func TestClaimPayment(t *testing.T) {
	f := newFixture(t)
	f.addMember(t, "ana@club.es", 0)
	s := f.addSession(t, 5)

	res, err := f.orch.Claim(context.Background(), "ana@club.es", s.ID, MethodPayment, "")
	require.NoError(t, err)

	assert.Equal(t, s.ID, res.SessionID)
	assert.Equal(t, model.TierStandard, res.Tier)
	assert.Equal(t, 15, res.PricePaidEUR)
	assert.Equal(t, 1, res.SessionsCompleted)

	got, err := f.sessions.GetByID(context.Background(), s.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Occupied)
}

func TestClaimWithOneTimeCode(t *testing.T) {
	f := newFixture(t)
	f.addMember(t, "ana@club.es", 0)
	s := f.addSession(t, 5)
	ctx := context.Background()

	code, err := f.codes.IssueCode(ctx)
	require.NoError(t, err)

	res, err := f.orch.Claim(ctx, "ana@club.es", s.ID, MethodManualCode, code)
	require.NoError(t, err)
	assert.Equal(t, model.TierStandard, res.Tier)
	assert.Equal(t, 0, res.PricePaidEUR) // the code covers the slot

	// The code is terminal: a second member cannot replay it.
	f.addMember(t, "eva@club.es", 0)
	_, err = f.orch.Claim(ctx, "eva@club.es", s.ID, MethodManualCode, code)
	assert.ErrorIs(t, err, repository.ErrCodeConsumed)
}

func TestClaimRewardAtNinthSession(t *testing.T) {
	// Member on sessionsCompleted=9 claims the earned free session with
	// the reward password: vip tier, nothing paid, counter rolls to 10.
	f := newFixture(t)
	f.addMember(t, "ana@club.es", 9)
	s := f.addSession(t, 5)

	res, err := f.orch.Claim(context.Background(), "ana@club.es", s.ID, MethodRewardCode, "premio2025")
	require.NoError(t, err)

	assert.Equal(t, model.TierVIP, res.Tier)
	assert.Equal(t, 0, res.PricePaidEUR)
	assert.Equal(t, 10, res.SessionsCompleted)
}

func TestClaimEligibleMemberMustUseReward(t *testing.T) {
	// The earned session cannot be paid for; the rejection happens
	// before any redemption so no code is burned.
	f := newFixture(t)
	f.addMember(t, "ana@club.es", 9)
	s := f.addSession(t, 5)
	ctx := context.Background()

	code, err := f.codes.IssueCode(ctx)
	require.NoError(t, err)

	_, err = f.orch.Claim(ctx, "ana@club.es", s.ID, MethodPayment, "")
	assert.ErrorIs(t, err, repository.ErrRewardRequired)
	_, err = f.orch.Claim(ctx, "ana@club.es", s.ID, MethodManualCode, code)
	assert.ErrorIs(t, err, repository.ErrRewardRequired)

	codes, err := f.codes.ListCodes(ctx)
	require.NoError(t, err)
	require.Len(t, codes, 1)
	assert.Equal(t, model.CodeStatusActive, codes[0].Status)
}

func TestClaimRewardRejectsOneTimeCode(t *testing.T) {
	// The reward step only accepts the reward password.  A one-time
	// code entered there is consumed and then rejected, not refunded.
	f := newFixture(t)
	f.addMember(t, "ana@club.es", 0)
	s := f.addSession(t, 5)
	ctx := context.Background()

	code, err := f.codes.IssueCode(ctx)
	require.NoError(t, err)

	_, err = f.orch.Claim(ctx, "ana@club.es", s.ID, MethodRewardCode, code)
	assert.ErrorIs(t, err, repository.ErrInvalidCode)

	codes, err := f.codes.ListCodes(ctx)
	require.NoError(t, err)
	require.Len(t, codes, 1)
	assert.Equal(t, model.CodeStatusUsed, codes[0].Status)
}

func TestClaimProfileIncomplete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.users.Create(ctx, "ana@club.es", "secret", "Ana", "", model.RoleMember, testBcryptCost)
	require.NoError(t, err)
	s := f.addSession(t, 5)

	_, err = f.orch.Claim(ctx, "ana@club.es", s.ID, MethodPayment, "")
	assert.ErrorIs(t, err, repository.ErrProfileIncomplete)

	// Nothing mutated.
	got, err := f.sessions.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Occupied)
}

func TestClaimAlreadyBooked(t *testing.T) {
	f := newFixture(t)
	f.addMember(t, "ana@club.es", 0)
	s := f.addSession(t, 5)
	ctx := context.Background()

	_, err := f.orch.Claim(ctx, "ana@club.es", s.ID, MethodPayment, "")
	require.NoError(t, err)
	_, err = f.orch.Claim(ctx, "ana@club.es", s.ID, MethodPayment, "")
	assert.ErrorIs(t, err, repository.ErrAlreadyBooked)

	got, err := f.sessions.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Occupied)
}

func TestClaimUnknownSession(t *testing.T) {
	f := newFixture(t)
	f.addMember(t, "ana@club.es", 0)

	_, err := f.orch.Claim(context.Background(), "ana@club.es", 42, MethodPayment, "")
	assert.ErrorIs(t, err, repository.ErrSessionNotFound)
}

func TestClaimUnknownUser(t *testing.T) {
	f := newFixture(t)
	s := f.addSession(t, 5)

	_, err := f.orch.Claim(context.Background(), "nadie@club.es", s.ID, MethodPayment, "")
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestClaimBlankCode(t *testing.T) {
	f := newFixture(t)
	f.addMember(t, "ana@club.es", 0)
	s := f.addSession(t, 5)

	_, err := f.orch.Claim(context.Background(), "ana@club.es", s.ID, MethodManualCode, "   ")
	assert.ErrorIs(t, err, repository.ErrInvalidCode)
}

func TestClaimUnknownMethod(t *testing.T) {
	f := newFixture(t)
	f.addMember(t, "ana@club.es", 0)
	s := f.addSession(t, 5)

	_, err := f.orch.Claim(context.Background(), "ana@club.es", s.ID, Method("transfer"), "")
	assert.ErrorIs(t, err, repository.ErrValidation)
}

func TestClaimSoldOut(t *testing.T) {
	f := newFixture(t)
	f.addMember(t, "ana@club.es", 0)
	f.addMember(t, "eva@club.es", 0)
	s := f.addSession(t, 1)
	ctx := context.Background()

	_, err := f.orch.Claim(ctx, "ana@club.es", s.ID, MethodPayment, "")
	require.NoError(t, err)
	_, err = f.orch.Claim(ctx, "eva@club.es", s.ID, MethodPayment, "")
	assert.ErrorIs(t, err, repository.ErrSoldOut)
}

func TestClaimSoldOutKeepsCodeConsumed(t *testing.T) {
	// Losing the capacity race after redemption does not refund the
	// code; a burned code stays burned.
	f := newFixture(t)
	f.addMember(t, "ana@club.es", 0)
	f.addMember(t, "eva@club.es", 0)
	s := f.addSession(t, 1)
	ctx := context.Background()

	_, err := f.orch.Claim(ctx, "ana@club.es", s.ID, MethodPayment, "")
	require.NoError(t, err)

	code, err := f.codes.IssueCode(ctx)
	require.NoError(t, err)
	_, err = f.orch.Claim(ctx, "eva@club.es", s.ID, MethodManualCode, code)
	assert.ErrorIs(t, err, repository.ErrSoldOut)

	codes, err := f.codes.ListCodes(ctx)
	require.NoError(t, err)
	require.Len(t, codes, 1)
	assert.Equal(t, model.CodeStatusUsed, codes[0].Status)
}

func TestClaimRaceForLastSlot(t *testing.T) {
	// Two members race for one slot: exactly one commit, one sold-out.
	f := newFixture(t)
	f.addMember(t, "ana@club.es", 0)
	f.addMember(t, "eva@club.es", 0)
	s := f.addSession(t, 1)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, email := range []string{"ana@club.es", "eva@club.es"} {
		wg.Add(1)
		go func(i int, email string) {
			defer wg.Done()
			_, errs[i] = f.orch.Claim(ctx, email, s.ID, MethodPayment, "")
		}(i, email)
	}
	wg.Wait()

	committed, soldOut := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			committed++
		case assert.ErrorIs(t, err, repository.ErrSoldOut):
			soldOut++
		}
	}
	assert.Equal(t, 1, committed)
	assert.Equal(t, 1, soldOut)

	got, err := f.sessions.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Occupied)
}

func TestClaimRejectionIsRepeatable(t *testing.T) {
	// A rejected claim mutates nothing, so repeating it yields the same
	// rejection.
	f := newFixture(t)
	f.addMember(t, "ana@club.es", 0)
	s := f.addSession(t, 5)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := f.orch.Claim(ctx, "ana@club.es", s.ID, MethodManualCode, "MS-NOPE")
		assert.ErrorIs(t, err, repository.ErrInvalidCode)
	}
	got, err := f.sessions.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Occupied)

	u, err := f.users.FindByEmail(ctx, "ana@club.es")
	require.NoError(t, err)
	assert.Equal(t, 0, u.SessionsCompleted)
}

func TestClaimManualCodeAcceptsRewardPassword(t *testing.T) {
	// The redemption priority is input-driven: the reward password on
	// the manual step resolves to vip and books free.
	f := newFixture(t)
	f.addMember(t, "ana@club.es", 0)
	s := f.addSession(t, 5)

	res, err := f.orch.Claim(context.Background(), "ana@club.es", s.ID, MethodManualCode, "premio2025")
	require.NoError(t, err)
	assert.Equal(t, model.TierVIP, res.Tier)
	assert.Equal(t, 0, res.PricePaidEUR)
}
