// Package repository implements the domain state holders on top of the
// pluggable key/value store.  Each repository exclusively owns one
// collection (sessions, codes and passwords, users, contest entries,
// proposals, the broadcast message) and serializes its own mutations
// with a mutex, because the store itself offers no cross-key
// transactions.
//
// This file defines the sentinel errors shared across repositories and
// the booking orchestrator.  They are returned as typed results, never
// thrown as panics, so the HTTP layer can translate each into a
// specific response and the member can retry.
package repository

import "errors"

// ErrValidation is returned for malformed admin input, such as a
// session created without a title.  It blocks only that creation.
var ErrValidation = errors.New("validation failed")

// ErrSessionNotFound is returned when the referenced session does not
// exist in the registry.
var ErrSessionNotFound = errors.New("session not found")

// ErrSoldOut is returned when a claim loses the capacity race at commit
// time: the session filled up between opening the booking flow and
// reserving the slot.
var ErrSoldOut = errors.New("session sold out")

// ErrAlreadyBooked is returned when the member already holds a slot in
// the session.  It fires before any state is mutated.
var ErrAlreadyBooked = errors.New("already booked")

// ErrProfileIncomplete is returned when the member's real name or
// Instagram handle is missing.  Both are required for the door list
// before any claim may proceed.
var ErrProfileIncomplete = errors.New("profile incomplete")

// ErrInvalidCode is returned when a redemption input matches neither an
// active one-time code nor a master password.
var ErrInvalidCode = errors.New("invalid code")

// ErrCodeConsumed is returned when the input matches a one-time code
// that was already redeemed.  Used codes never revert to active.
var ErrCodeConsumed = errors.New("code already consumed")

// ErrRewardRequired is returned when a free-eligible member tries to
// pay: the orchestrator forces the reward path instead of accepting
// money for a session the member has already earned.
var ErrRewardRequired = errors.New("reward redemption required")

// ErrTechnical wraps any unexpected downstream failure (store
// unreachable, corrupt payload).  It degrades the one operation that
// hit it and leaves all other state untouched.
var ErrTechnical = errors.New("technical error")

// ErrUserNotFound is returned when no member exists for the given email.
var ErrUserNotFound = errors.New("user not found")

// ErrEmailExists is returned when a registration reuses an email.
var ErrEmailExists = errors.New("email already exists")

// ErrDuplicateEntry is returned when a member submits a second photo to
// the same contest.
var ErrDuplicateEntry = errors.New("entry already submitted")

// ErrEntryNotFound is returned when a vote references an unknown
// contest entry.
var ErrEntryNotFound = errors.New("entry not found")

// ErrProposalNotFound is returned when a vote references an unknown
// theme proposal.
var ErrProposalNotFound = errors.New("proposal not found")
