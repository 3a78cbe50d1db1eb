package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/madshoots/club-api/internal/model"
	"github.com/madshoots/club-api/internal/schedule"
	"github.com/madshoots/club-api/internal/store"
)

// SessionDefaults are the values filled in when the admin leaves a
// field blank on creation.  They come from configuration, not literals.
type SessionDefaults struct {
	Capacity int
	PriceEUR int
	Location string
}

// SessionRepo is the session registry: the exclusive owner of session
// records and their occupancy counters.  The mutex is the single
// serialization point that prevents overbooking: no two concurrent
// ReserveSlot calls may both succeed when one slot remains.
type SessionRepo struct {
	mu       sync.Mutex
	store    store.Store
	defaults SessionDefaults
	duration time.Duration // how long a shoot runs; defines "session over"
}

// NewSessionRepo returns a SessionRepo bound to the given store.
func NewSessionRepo(st store.Store, defaults SessionDefaults, duration time.Duration) *SessionRepo {
	return &SessionRepo{store: st, defaults: defaults, duration: duration}
}

// ListAll returns every session in registry order (newest first).
func (r *SessionRepo) ListAll(ctx context.Context) ([]model.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load(ctx)
}

// ListActive returns the sessions whose computed end time has not yet
// passed, preserving registry order.  Sessions with unparseable dates
// resolve to next year and therefore stay on the agenda.
func (r *SessionRepo) ListActive(ctx context.Context, now time.Time) ([]model.Session, error) {
	all, err := r.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	active := make([]model.Session, 0, len(all))
	for _, s := range all {
		if now.Before(r.EndTime(s, now)) {
			active = append(active, s)
		}
	}
	return active, nil
}

// GetByID returns a single session or ErrSessionNotFound.
func (r *SessionRepo) GetByID(ctx context.Context, id int64) (model.Session, error) {
	all, err := r.ListAll(ctx)
	if err != nil {
		return model.Session{}, err
	}
	for _, s := range all {
		if s.ID == id {
			return s, nil
		}
	}
	return model.Session{}, ErrSessionNotFound
}

// Create registers a new session from an admin draft.  Unset fields
// receive the configured defaults; the moodboard falls back to the
// cover image.  The id is derived from the creation timestamp (Unix
// milliseconds) and bumped until unique.  A blank title fails with
// ErrValidation and leaves the registry untouched.
func (r *SessionRepo) Create(ctx context.Context, draft model.SessionDraft) (model.Session, error) {
	if strings.TrimSpace(draft.Title) == "" {
		return model.Session{}, ErrValidation
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	all, err := r.load(ctx)
	if err != nil {
		return model.Session{}, err
	}

	id := time.Now().UnixMilli()
	for r.idTaken(all, id) {
		id++
	}

	s := model.Session{
		ID:              id,
		Title:           strings.TrimSpace(draft.Title),
		Description:     defaultStr(draft.Description, "Descripción pendiente de actualizar."),
		Tag:             defaultStr(draft.Tag, "NUEVO"),
		ScheduledDate:   defaultStr(draft.ScheduledDate, "PENDIENTE"),
		ScheduledTime:   defaultStr(draft.ScheduledTime, "10:00"),
		Location:        defaultStr(draft.Location, r.defaults.Location),
		MapsLink:        draft.MapsLink,
		Capacity:        defaultInt(draft.Capacity, r.defaults.Capacity),
		Occupied:        0,
		PriceEUR:        defaultInt(draft.PriceEUR, r.defaults.PriceEUR),
		CoverImage:      draft.CoverImage,
		MoodboardImages: draft.MoodboardImages,
	}
	if len(s.MoodboardImages) == 0 && s.CoverImage != "" {
		s.MoodboardImages = []string{s.CoverImage}
	}

	// Newest sessions lead the agenda.
	all = append([]model.Session{s}, all...)
	if err := saveJSON(ctx, r.store, keySessions, all); err != nil {
		return model.Session{}, err
	}
	return s, nil
}

// ReserveSlot atomically claims one slot.  It returns true and
// increments occupancy only while occupied < capacity; a full session
// returns false with no mutation.  Occupancy never decrements; there
// is no cancellation path.
func (r *SessionRepo) ReserveSlot(ctx context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all, err := r.load(ctx)
	if err != nil {
		return false, err
	}
	for i := range all {
		if all[i].ID != id {
			continue
		}
		if all[i].Occupied >= all[i].Capacity {
			return false, nil
		}
		all[i].Occupied++
		if err := saveJSON(ctx, r.store, keySessions, all); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, ErrSessionNotFound
}

// EndTime computes when the session is over: parsed start plus the
// configured duration.  Both the active agenda and contest activation
// consume this single definition.
func (r *SessionRepo) EndTime(s model.Session, now time.Time) time.Time {
	return schedule.End(s.ScheduledDate, s.ScheduledTime, now, r.duration)
}

func (r *SessionRepo) load(ctx context.Context) ([]model.Session, error) {
	var all []model.Session
	if _, err := loadJSON(ctx, r.store, keySessions, &all); err != nil {
		return nil, err
	}
	return all, nil
}

func (r *SessionRepo) idTaken(all []model.Session, id int64) bool {
	for _, s := range all {
		if s.ID == id {
			return true
		}
	}
	return false
}

func defaultStr(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func defaultInt(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
