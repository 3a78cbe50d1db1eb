package repository

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/madshoots/club-api/internal/model"
	"github.com/madshoots/club-api/internal/store"
)

// ProposalRepo owns member-suggested themes for future sessions.
type ProposalRepo struct {
	mu    sync.Mutex
	store store.Store
}

// NewProposalRepo returns a ProposalRepo bound to the given store.
func NewProposalRepo(st store.Store) *ProposalRepo {
	return &ProposalRepo{store: st}
}

// ListAll returns every proposal, newest first.
func (r *ProposalRepo) ListAll(ctx context.Context) ([]model.Proposal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load(ctx)
}

// Add registers a new theme proposal.  It starts with one vote, the
// author's own.  A blank theme rejects with ErrValidation.
func (r *ProposalRepo) Add(ctx context.Context, theme, author string) (model.Proposal, error) {
	theme = strings.TrimSpace(theme)
	if theme == "" {
		return model.Proposal{}, ErrValidation
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	proposals, err := r.load(ctx)
	if err != nil {
		return model.Proposal{}, err
	}
	p := model.Proposal{
		ID:     uuid.NewString(),
		Author: author,
		Theme:  theme,
		Votes:  1,
	}
	proposals = append([]model.Proposal{p}, proposals...)
	if err := saveJSON(ctx, r.store, keyProposals, proposals); err != nil {
		return model.Proposal{}, err
	}
	return p, nil
}

// Vote increments a proposal's vote count.  As with contest votes, no
// duplicate guard exists.
func (r *ProposalRepo) Vote(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	proposals, err := r.load(ctx)
	if err != nil {
		return err
	}
	for i := range proposals {
		if proposals[i].ID == id {
			proposals[i].Votes++
			return saveJSON(ctx, r.store, keyProposals, proposals)
		}
	}
	return ErrProposalNotFound
}

func (r *ProposalRepo) load(ctx context.Context) ([]model.Proposal, error) {
	var proposals []model.Proposal
	if _, err := loadJSON(ctx, r.store, keyProposals, &proposals); err != nil {
		return nil, err
	}
	return proposals, nil
}
