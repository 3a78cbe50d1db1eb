// Package booking implements the claim state machine: the one place
// where the session registry, the access-code manager and the loyalty
// ledger meet.  A claim either fully commits (slot reserved, loyalty
// counter advanced, history appended) or fully rejects with a typed
// reason; the three mutations are never observed half applied.
package booking

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/madshoots/club-api/internal/loyalty"
	"github.com/madshoots/club-api/internal/model"
	"github.com/madshoots/club-api/internal/repository"
)

// Method selects how the member wants to claim the slot.
type Method string

const (
	// MethodPayment is the self-reported "I paid" confirmation.  The
	// club never verifies payment with the processor; it trusts the
	// member and settles discrepancies at the door.
	MethodPayment Method = "payment"
	// MethodManualCode redeems a one-time code or the booking password.
	MethodManualCode Method = "manual_code"
	// MethodRewardCode redeems the loyalty reward password for the free
	// session.
	MethodRewardCode Method = "reward_code"
)

// Result describes a committed claim.
type Result struct {
	SessionID         int64      `json:"session_id"`
	SessionTitle      string     `json:"session_title"`
	Tier              model.Tier `json:"tier"`
	PricePaidEUR      int        `json:"price_paid_eur"`
	SessionsCompleted int        `json:"sessions_completed"`
	BookedAt          time.Time  `json:"booked_at"`
}

// Orchestrator coordinates one atomic claim per member action.  Its
// mutex serializes the whole validate-and-commit sequence: within a
// process, two racing claims for the last slot resolve to exactly one
// commit and one sold-out rejection.
type Orchestrator struct {
	mu       sync.Mutex
	sessions *repository.SessionRepo
	codes    *repository.AccessCodeRepo
	users    *repository.UserRepo
	cycle    int              // loyalty cycle length (policy, from config)
	now      func() time.Time // clock, replaceable in tests
}

// New wires the orchestrator to its collaborators.  cycle is the
// loyalty cycle length from configuration.
func New(sessions *repository.SessionRepo, codes *repository.AccessCodeRepo, users *repository.UserRepo, cycle int) *Orchestrator {
	return &Orchestrator{
		sessions: sessions,
		codes:    codes,
		users:    users,
		cycle:    cycle,
		now:      time.Now,
	}
}

// Claim executes one slot claim for the member.  The sequence is:
//
//	preconditions (no mutation) -> redemption -> reserve slot -> record on user
//
// Preconditions reject without touching any state: unknown member,
// incomplete profile, session already held, unknown session.  A
// free-eligible member is forced onto the reward path; payment is
// refused for a session they have already earned.
//
// Redemption may consume a one-time code.  If the subsequent slot
// reservation loses the capacity race, the code stays consumed: a
// burned code cannot be replayed, and that is preferred over the
// overbooking risk of refunding it.
func (o *Orchestrator) Claim(ctx context.Context, email string, sessionID int64, method Method, codeInput string) (Result, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	user, err := o.users.FindByEmail(ctx, email)
	if err != nil {
		return Result{}, technical(err)
	}
	if !user.ProfileComplete() {
		return Result{}, repository.ErrProfileIncomplete
	}
	if user.HasBooked(sessionID) {
		return Result{}, repository.ErrAlreadyBooked
	}

	session, err := o.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return Result{}, technical(err)
	}

	eligible := loyalty.IsFreeEligible(user.SessionsCompleted, o.cycle)
	if eligible && method != MethodRewardCode {
		// Method routing: the free session is claimed with the reward
		// password, never paid for.  Rejecting before any redemption
		// keeps codes unburned.
		return Result{}, repository.ErrRewardRequired
	}

	tier, price, err := o.resolveTier(ctx, session, method, codeInput)
	if err != nil {
		return Result{}, err
	}
	if eligible {
		// The earned session is free regardless of how the reward
		// password resolves its tier.
		tier = model.TierVIP
		price = 0
	}

	ok, err := o.sessions.ReserveSlot(ctx, sessionID)
	if err != nil {
		return Result{}, technical(err)
	}
	if !ok {
		// Capacity race lost after the redemption step: any one-time
		// code consumed above stays used.
		return Result{}, repository.ErrSoldOut
	}

	bookedAt := o.now().UTC()
	updated, err := o.users.RecordBooking(ctx, email, sessionID, tier, bookedAt)
	if err != nil {
		return Result{}, technical(err)
	}

	return Result{
		SessionID:         sessionID,
		SessionTitle:      session.Title,
		Tier:              tier,
		PricePaidEUR:      price,
		SessionsCompleted: updated.SessionsCompleted,
		BookedAt:          bookedAt,
	}, nil
}

// resolveTier validates the chosen method and returns the resulting
// tier and price.  Code methods delegate to the access-code manager;
// the payment method is accepted as-is (trusted self-report).
func (o *Orchestrator) resolveTier(ctx context.Context, session model.Session, method Method, codeInput string) (model.Tier, int, error) {
	switch method {
	case MethodPayment:
		return model.TierStandard, session.PriceEUR, nil

	case MethodManualCode, MethodRewardCode:
		if strings.TrimSpace(codeInput) == "" {
			return "", 0, repository.ErrInvalidCode
		}
		red, err := o.codes.Redeem(ctx, codeInput)
		if err != nil {
			return "", 0, technical(err)
		}
		if !red.Accepted {
			if red.Reason == "already consumed" {
				return "", 0, repository.ErrCodeConsumed
			}
			return "", 0, repository.ErrInvalidCode
		}
		if method == MethodRewardCode && red.Tier != model.TierVIP {
			// The reward step only accepts the reward password.  A
			// one-time code entered here was still consumed by the
			// redemption above; it is not refunded.
			return "", 0, repository.ErrInvalidCode
		}
		// A successful code redemption covers the slot: nothing is paid.
		price := 0
		return red.Tier, price, nil
	}
	return "", 0, fmt.Errorf("%w: unknown claim method %q", repository.ErrValidation, method)
}

// technical passes repository sentinels through untouched and wraps
// everything else as a TechnicalError.
func technical(err error) error {
	switch err {
	case repository.ErrUserNotFound, repository.ErrSessionNotFound,
		repository.ErrAlreadyBooked, repository.ErrSoldOut:
		return err
	}
	return fmt.Errorf("%w: %v", repository.ErrTechnical, err)
}
