package model

import (
	"strings"
	"time"
)

// Roles stored in the JWT "role" claim.
const (
	RoleMember = "MEMBER"
	RoleAdmin  = "ADMIN"
)

// BookingRecord is one line of a member's booking history.
type BookingRecord struct {
	SessionID int64     `json:"session_id"`
	Tier      Tier      `json:"tier"`
	BookedAt  time.Time `json:"booked_at"`
}

// User is a club member.  Email is the unique key.  RealName and
// Instagram are required before any claim may proceed: the admin uses
// them for the door list and to credit published photos.
//
// SessionsCompleted increments by exactly one per successful claim and
// never decreases; the loyalty cycle is derived from it on every read.
// BookedSessionIDs never contains duplicates – a member holds at most
// one slot per session.
//
// PasswordHash persists with the record; handlers must answer with
// DTOs, never with the record itself.
type User struct {
	Email             string          `json:"email"`
	PasswordHash      string          `json:"password_hash,omitempty"`
	Name              string          `json:"name"`
	RealName          string          `json:"real_name,omitempty"`
	Instagram         string          `json:"instagram,omitempty"`
	Phone             string          `json:"phone,omitempty"`
	Role              string          `json:"role"`
	SessionsCompleted int             `json:"sessions_completed"`
	BookedSessionIDs  []int64         `json:"booked_session_ids"`
	BookingHistory    []BookingRecord `json:"booking_history"`
	CreatedAt         time.Time       `json:"created_at"`
}

// HasBooked reports whether the user already holds a slot in the session.
func (u User) HasBooked(sessionID int64) bool {
	for _, id := range u.BookedSessionIDs {
		if id == sessionID {
			return true
		}
	}
	return false
}

// ProfileComplete reports whether the fields required for booking are
// populated.
func (u User) ProfileComplete() bool {
	return strings.TrimSpace(u.RealName) != "" && strings.TrimSpace(u.Instagram) != ""
}
