package contest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/madshoots/club-api/internal/model"
	"github.com/madshoots/club-api/internal/repository"
	"github.com/madshoots/club-api/internal/store"
)

func newService(t *testing.T) (*Service, *repository.SessionRepo) {
	t.Helper()
	st := store.NewMemory()
	sessions := repository.NewSessionRepo(st, repository.SessionDefaults{
		Capacity: 10,
		PriceEUR: 15,
		Location: "Madrid",
	}, 3*time.Hour)
	return NewService(sessions, repository.NewContestRepo(st)), sessions
}

func addSession(t *testing.T, sessions *repository.SessionRepo, date, hhmm string) model.Session {
	t.Helper()
	s, err := sessions.Create(context.Background(), model.SessionDraft{
		Title:         "Retrato urbano",
		ScheduledDate: date,
		ScheduledTime: hhmm,
	})
	require.NoError(t, err)
	return s
}

func TestActiveOnlyAfterSessionEnds(t *testing.T) {
	svc, sessions := newService(t)
	ctx := context.Background()

	ended := addSession(t, sessions, "SÁB 1 FEB", "17:00")
	upcoming := addSession(t, sessions, "SÁB 21 JUN", "17:00")
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.Local)

	contests, err := svc.Active(ctx, now)
	require.NoError(t, err)
	require.Len(t, contests, 1)
	assert.Equal(t, ended.ID, contests[0].SessionID)
	assert.NotEqual(t, upcoming.ID, contests[0].SessionID)
	assert.Equal(t, "Retrato urbano", contests[0].Title)
	assert.NotNil(t, contests[0].Entries)
}

func TestSubmitEntryGatedBySessionEnd(t *testing.T) {
	svc, sessions := newService(t)
	ctx := context.Background()

	upcoming := addSession(t, sessions, "SÁB 21 JUN", "17:00")
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.Local)

	_, err := svc.SubmitEntry(ctx, now, upcoming.ID, "Ana", "ana@club.es", "https://img/1.jpg")
	assert.ErrorIs(t, err, repository.ErrValidation)

	_, err = svc.SubmitEntry(ctx, now, 42, "Ana", "ana@club.es", "https://img/1.jpg")
	assert.ErrorIs(t, err, repository.ErrSessionNotFound)
}

func TestSubmitEntryOncePerMember(t *testing.T) {
	svc, sessions := newService(t)
	ctx := context.Background()

	ended := addSession(t, sessions, "SÁB 1 FEB", "17:00")
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.Local)

	entry, err := svc.SubmitEntry(ctx, now, ended.ID, "Ana", "ana@club.es", "https://img/1.jpg")
	require.NoError(t, err)
	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, 0, entry.Votes)

	_, err = svc.SubmitEntry(ctx, now, ended.ID, "Ana", "ana@club.es", "https://img/2.jpg")
	assert.ErrorIs(t, err, repository.ErrDuplicateEntry)
}

func TestVote(t *testing.T) {
	svc, sessions := newService(t)
	ctx := context.Background()

	ended := addSession(t, sessions, "SÁB 1 FEB", "17:00")
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.Local)

	entry, err := svc.SubmitEntry(ctx, now, ended.ID, "Ana", "ana@club.es", "https://img/1.jpg")
	require.NoError(t, err)

	// Votes are unconditional; the same caller may vote repeatedly.
	require.NoError(t, svc.Vote(ctx, now, ended.ID, entry.ID))
	require.NoError(t, svc.Vote(ctx, now, ended.ID, entry.ID))

	contests, err := svc.Active(ctx, now)
	require.NoError(t, err)
	require.Len(t, contests, 1)
	require.Len(t, contests[0].Entries, 1)
	assert.Equal(t, 2, contests[0].Entries[0].Votes)

	assert.ErrorIs(t, svc.Vote(ctx, now, ended.ID, "missing"), repository.ErrEntryNotFound)
}
