package model

import "time"

// Code status values.  A code is created active and becomes used at the
// moment a redemption first matches it.  The transition is terminal.
const (
	CodeStatusActive = "active"
	CodeStatusUsed   = "used"
)

// OneTimeCode is a single-use access token handed out by the admin,
// typically over a direct channel such as WhatsApp.  Codes look like
// "MS-7KQ4": a fixed prefix plus four characters drawn from an
// alphabet without visually ambiguous symbols.
type OneTimeCode struct {
	Code      string    `json:"code"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// MasterPasswords holds the two long-lived shared secrets: the booking
// password grants a standard-tier redemption and the reward password
// gates the loyalty free tier.  Both are reusable and mutable by the
// admin; no history is kept.
type MasterPasswords struct {
	BookingPassword string `json:"booking_password"`
	RewardPassword  string `json:"reward_password"`
}

// Tier classifies how a slot was claimed.  Standard covers payment and
// generic code redemptions; VIP marks a loyalty-reward claim at zero
// price.
type Tier string

const (
	TierStandard Tier = "standard"
	TierVIP      Tier = "vip"
)

// Redemption is the outcome of evaluating a code or password input.
// When Accepted is false, Reason explains the rejection so the caller
// can surface a specific message.
type Redemption struct {
	Accepted bool   `json:"accepted"`
	Tier     Tier   `json:"tier,omitempty"`
	Reason   string `json:"reason,omitempty"`
}
