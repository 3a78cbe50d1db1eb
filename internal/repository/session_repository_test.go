package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/madshoots/club-api/internal/model"
	"github.com/madshoots/club-api/internal/store"
)

func newSessionRepo() *SessionRepo {
	return NewSessionRepo(store.NewMemory(), SessionDefaults{
		Capacity: 10,
		PriceEUR: 15,
		Location: "Madrid",
	}, 3*time.Hour)
}

func TestCreateFillsDefaults(t *testing.T) {
	r := newSessionRepo()
	ctx := context.Background()

	s, err := r.Create(ctx, model.SessionDraft{Title: "  Retrato urbano  "})
	require.NoError(t, err)

	assert.Equal(t, "Retrato urbano", s.Title)
	assert.Equal(t, 10, s.Capacity)
	assert.Equal(t, 0, s.Occupied)
	assert.Equal(t, 15, s.PriceEUR)
	assert.Equal(t, "Madrid", s.Location)
	assert.Equal(t, "NUEVO", s.Tag)
	assert.NotZero(t, s.ID)
}

func TestCreateRequiresTitle(t *testing.T) {
	r := newSessionRepo()

	_, err := r.Create(context.Background(), model.SessionDraft{Title: "   "})
	assert.ErrorIs(t, err, ErrValidation)

	all, err := r.ListAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestCreateMoodboardFallsBackToCover(t *testing.T) {
	r := newSessionRepo()

	s, err := r.Create(context.Background(), model.SessionDraft{
		Title:      "Neon nights",
		CoverImage: "https://img/cover.jpg",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"https://img/cover.jpg"}, s.MoodboardImages)
}

func TestCreatePrependsNewest(t *testing.T) {
	r := newSessionRepo()
	ctx := context.Background()

	first, err := r.Create(ctx, model.SessionDraft{Title: "first"})
	require.NoError(t, err)
	second, err := r.Create(ctx, model.SessionDraft{Title: "second"})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	all, err := r.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "second", all[0].Title)
	assert.Equal(t, "first", all[1].Title)
}

func TestReserveSlot(t *testing.T) {
	r := newSessionRepo()
	ctx := context.Background()

	s, err := r.Create(ctx, model.SessionDraft{Title: "tiny", Capacity: 2})
	require.NoError(t, err)

	ok, err := r.ReserveSlot(ctx, s.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = r.ReserveSlot(ctx, s.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	// Full: no further slot, occupancy stays at capacity.
	ok, err = r.ReserveSlot(ctx, s.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := r.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Occupied)
}

func TestReserveSlotUnknownSession(t *testing.T) {
	r := newSessionRepo()
	_, err := r.ReserveSlot(context.Background(), 42)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestReserveSlotConcurrent(t *testing.T) {
	// 20 goroutines race for 5 slots; exactly 5 may win.
	r := newSessionRepo()
	ctx := context.Background()

	s, err := r.Create(ctx, model.SessionDraft{Title: "race", Capacity: 5})
	require.NoError(t, err)

	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := r.ReserveSlot(ctx, s.ID)
			assert.NoError(t, err)
			if ok {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, wins)
	got, err := r.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Occupied)
}

func TestListActiveDropsEndedSessions(t *testing.T) {
	r := newSessionRepo()
	ctx := context.Background()
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.Local)

	past, err := r.Create(ctx, model.SessionDraft{Title: "past", ScheduledDate: "SÁB 1 FEB", ScheduledTime: "17:00"})
	require.NoError(t, err)
	future, err := r.Create(ctx, model.SessionDraft{Title: "future", ScheduledDate: "SÁB 21 JUN", ScheduledTime: "17:00"})
	require.NoError(t, err)

	active, err := r.ListActive(ctx, now)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, future.ID, active[0].ID)
	assert.NotEqual(t, past.ID, active[0].ID)
}

func TestListActiveKeepsUnparseableDates(t *testing.T) {
	// A malformed date resolves to next year, so the session stays
	// bookable instead of silently vanishing.
	r := newSessionRepo()
	ctx := context.Background()

	_, err := r.Create(ctx, model.SessionDraft{Title: "tbd", ScheduledDate: "PENDIENTE"})
	require.NoError(t, err)

	active, err := r.ListActive(ctx, time.Now())
	require.NoError(t, err)
	assert.Len(t, active, 1)
}
