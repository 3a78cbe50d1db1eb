// Package contest derives the post-session photo contests from the
// session registry.  A contest exists for every session whose computed
// end time has passed; it is a view, recomputed on every read, never a
// stored record.  Only the entries persist, keyed by session id.
package contest

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/madshoots/club-api/internal/model"
	"github.com/madshoots/club-api/internal/repository"
)

// Service reads the session registry and owns no session state itself.
type Service struct {
	sessions *repository.SessionRepo
	entries  *repository.ContestRepo
}

// NewService wires the contest view to its repositories.
func NewService(sessions *repository.SessionRepo, entries *repository.ContestRepo) *Service {
	return &Service{sessions: sessions, entries: entries}
}

// Active returns the open contests, most recently ended session first.
// Ordering is descending by session id: ids are creation-ordered
// timestamps, which for chronologically created sessions approximates
// end-time order.  Entries are loaded from their own storage so they
// survive session removal.
func (s *Service) Active(ctx context.Context, now time.Time) ([]model.Contest, error) {
	all, err := s.sessions.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	contests := make([]model.Contest, 0)
	for _, sess := range all {
		if now.Before(s.sessions.EndTime(sess, now)) {
			continue
		}
		entries, err := s.entries.EntriesFor(ctx, sess.ID)
		if err != nil {
			return nil, err
		}
		contests = append(contests, model.Contest{
			SessionID: sess.ID,
			Title:     sess.Title,
			Entries:   entries,
		})
	}
	sort.Slice(contests, func(i, j int) bool { return contests[i].SessionID > contests[j].SessionID })
	return contests, nil
}

// SubmitEntry adds a member's photo to an open contest.  The session
// must exist and be past its end time; a member may enter each contest
// once.  The entry id is assigned here.
func (s *Service) SubmitEntry(ctx context.Context, now time.Time, sessionID int64, photographer, email, imageURL string) (model.ContestEntry, error) {
	if err := s.requireOpen(ctx, now, sessionID); err != nil {
		return model.ContestEntry{}, err
	}
	entry := model.ContestEntry{
		ID:           uuid.NewString(),
		Photographer: photographer,
		Email:        email,
		ImageURL:     imageURL,
		Votes:        0,
	}
	if err := s.entries.SubmitEntry(ctx, sessionID, entry); err != nil {
		return model.ContestEntry{}, err
	}
	return entry, nil
}

// Vote increments an entry's count.  Votes are unconditional: there is
// no duplicate-vote guard and no tie to the voter.
func (s *Service) Vote(ctx context.Context, now time.Time, sessionID int64, entryID string) error {
	if err := s.requireOpen(ctx, now, sessionID); err != nil {
		return err
	}
	return s.entries.Vote(ctx, sessionID, entryID)
}

// requireOpen verifies the session exists and its contest window has
// opened (now >= end time).
func (s *Service) requireOpen(ctx context.Context, now time.Time, sessionID int64) error {
	sess, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return err
	}
	if now.Before(s.sessions.EndTime(sess, now)) {
		return repository.ErrValidation
	}
	return nil
}
