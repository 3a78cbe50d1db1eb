// Package queue defines message payloads exchanged over the message broker.
package queue

// ClaimCommittedEvent is published after a slot claim fully commits.
// It carries enough for downstream consumers (attendance log, door
// list, analytics) without querying the primary store.
type ClaimCommittedEvent struct {
	SessionID         int64  `json:"session_id"`
	SessionTitle      string `json:"session_title"`
	ScheduledDate     string `json:"scheduled_date"`
	ScheduledTime     string `json:"scheduled_time"`
	MemberEmail       string `json:"member_email"`
	MemberName        string `json:"member_name"`
	Tier              string `json:"tier"`
	PricePaidEUR      int    `json:"price_paid_eur"`
	SlotsLeft         int    `json:"slots_left"`
	SessionsCompleted int    `json:"sessions_completed"`
	CommittedAt       string `json:"committed_at"`
}
