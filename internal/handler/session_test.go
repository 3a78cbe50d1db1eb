package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/madshoots/club-api/internal/booking"
	"github.com/madshoots/club-api/internal/model"
	"github.com/madshoots/club-api/internal/repository"
	"github.com/madshoots/club-api/internal/store"
)

func newSessionHandler(t *testing.T) (*SessionHandler, *repository.SessionRepo, *repository.UserRepo, *repository.AccessCodeRepo) {
	t.Helper()
	st := store.NewMemory()
	sessions := repository.NewSessionRepo(st, repository.SessionDefaults{
		Capacity: 10,
		PriceEUR: 15,
		Location: "Madrid",
	}, 3*time.Hour)
	codes := repository.NewAccessCodeRepo(st, "club2025", "premio2025")
	users := repository.NewUserRepo(st)
	orch := booking.New(sessions, codes, users, 10)
	return NewSessionHandler(sessions, users, orch), sessions, users, codes
}

func addCompleteMember(t *testing.T, users *repository.UserRepo, email string) {
	t.Helper()
	ctx := context.Background()
	_, err := users.Create(ctx, email, "secret", "Ana", "", model.RoleMember, 4)
	require.NoError(t, err)
	real, insta := "Ana García", "@anagarcia"
	_, err = users.UpdateFields(ctx, email, repository.ProfileUpdate{RealName: &real, Instagram: &insta})
	require.NoError(t, err)
}

func doClaim(h *SessionHandler, email, sessionID, body string) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/sessions/"+sessionID+"/claim", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/v1/sessions/:id/claim")
	c.SetParamNames("id")
	c.SetParamValues(sessionID)
	c.Set("user_email", email)
	_ = h.Claim(c)
	return rec
}

func TestClaimEndpointCommits(t *testing.T) {
	h, sessions, users, _ := newSessionHandler(t)
	addCompleteMember(t, users, "ana@club.es")
	s, err := sessions.Create(context.Background(), model.SessionDraft{Title: "Retrato urbano"})
	require.NoError(t, err)

	rec := doClaim(h, "ana@club.es", itoa(s.ID), `{"method":"payment"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"tier":"standard"`)
}

func TestClaimEndpointStatusMapping(t *testing.T) {
	h, sessions, users, codes := newSessionHandler(t)
	addCompleteMember(t, users, "ana@club.es")
	ctx := context.Background()
	s, err := sessions.Create(ctx, model.SessionDraft{Title: "Retrato urbano", Capacity: 1})
	require.NoError(t, err)
	id := itoa(s.ID)

	// Incomplete profile -> 403.
	_, err = users.Create(ctx, "nuevo@club.es", "secret", "Nuevo", "", model.RoleMember, 4)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, doClaim(h, "nuevo@club.es", id, `{"method":"payment"}`).Code)

	// Unknown session -> 404.
	assert.Equal(t, http.StatusNotFound, doClaim(h, "ana@club.es", "42", `{"method":"payment"}`).Code)

	// Invalid code -> 400.
	assert.Equal(t, http.StatusBadRequest, doClaim(h, "ana@club.es", id, `{"method":"manual_code","code":"MS-NOPE"}`).Code)

	// Commit, then already-booked -> 409.
	assert.Equal(t, http.StatusCreated, doClaim(h, "ana@club.es", id, `{"method":"payment"}`).Code)
	assert.Equal(t, http.StatusConflict, doClaim(h, "ana@club.es", id, `{"method":"payment"}`).Code)

	// Sold out for the next member -> 409, and a consumed code stays
	// consumed.
	addCompleteMember(t, users, "eva@club.es")
	code, err := codes.IssueCode(ctx)
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, doClaim(h, "eva@club.es", id, `{"method":"manual_code","code":"`+code+`"}`).Code)

	list, err := codes.ListCodes(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, model.CodeStatusUsed, list[0].Status)
}

func TestListActiveEndpoint(t *testing.T) {
	h, sessions, _, _ := newSessionHandler(t)
	_, err := sessions.Create(context.Background(), model.SessionDraft{Title: "Retrato urbano"})
	require.NoError(t, err)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/sessions", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.ListActive(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"slots_left":10`)
	assert.NotContains(t, rec.Body.String(), `"occupied"`)
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
