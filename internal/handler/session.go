package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/madshoots/club-api/internal/booking"
	"github.com/madshoots/club-api/internal/model"
	"github.com/madshoots/club-api/internal/queue"
	"github.com/madshoots/club-api/internal/repository"
	queue_publisher "github.com/madshoots/club-api/internal/service"
)

// SessionHandler exposes the member-facing agenda and the slot claim
// endpoint.  All methods assume JWT authentication has already run.
type SessionHandler struct {
	Sessions *repository.SessionRepo
	Users    *repository.UserRepo
	Claims   *booking.Orchestrator
}

func NewSessionHandler(s *repository.SessionRepo, u *repository.UserRepo, o *booking.Orchestrator) *SessionHandler {
	return &SessionHandler{Sessions: s, Users: u, Claims: o}
}

// sessionPart is the agenda view of a session.  Occupancy is exposed as
// slots_left so clients never compute capacity arithmetic themselves.
type sessionPart struct {
	ID              int64    `json:"id"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Tag             string   `json:"tag"`
	ScheduledDate   string   `json:"scheduled_date"`
	ScheduledTime   string   `json:"scheduled_time"`
	Location        string   `json:"location"`
	MapsLink        string   `json:"maps_link,omitempty"`
	Capacity        int      `json:"capacity"`
	SlotsLeft       int      `json:"slots_left"`
	PriceEUR        int      `json:"price_eur"`
	CoverImage      string   `json:"cover_image,omitempty"`
	MoodboardImages []string `json:"moodboard_images,omitempty"`
}

func toSessionPart(s model.Session) sessionPart {
	return sessionPart{
		ID:              s.ID,
		Title:           s.Title,
		Description:     s.Description,
		Tag:             s.Tag,
		ScheduledDate:   s.ScheduledDate,
		ScheduledTime:   s.ScheduledTime,
		Location:        s.Location,
		MapsLink:        s.MapsLink,
		Capacity:        s.Capacity,
		SlotsLeft:       s.SlotsLeft(),
		PriceEUR:        s.PriceEUR,
		CoverImage:      s.CoverImage,
		MoodboardImages: s.MoodboardImages,
	}
}

// ListActive handles GET /v1/sessions.  It returns the live agenda:
// every session whose end time has not yet passed, newest first.
func (h *SessionHandler) ListActive(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	active, err := h.Sessions.ListActive(ctx, time.Now())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]sessionPart, 0, len(active))
	for _, s := range active {
		out = append(out, toSessionPart(s))
	}
	return c.JSON(http.StatusOK, echo.Map{"sessions": out})
}

// Get handles GET /v1/sessions/:id.
func (h *SessionHandler) Get(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid session id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	s, err := h.Sessions.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrSessionNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"session": toSessionPart(s)})
}

type claimReq struct {
	Method string `json:"method"` // payment | manual_code | reward_code
	Code   string `json:"code"`   // required for the code methods
}

// Claim handles POST /v1/sessions/:id/claim.  It runs the whole claim
// through the orchestrator and maps each typed rejection to a status
// code; the client only ever needs the error string to route the UI.
// On commit a claim.committed event is published for the attendance
// log; broker failures never fail the response.
func (h *SessionHandler) Claim(c echo.Context) error {
	email, ok := c.Get("user_email").(string)
	if !ok || email == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid session id"})
	}
	var req claimReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	res, err := h.Claims.Claim(ctx, email, id, booking.Method(req.Method), req.Code)
	if err != nil {
		return claimError(c, err)
	}

	// Slots left for the event payload; best effort, the claim already
	// committed.
	slotsLeft := 0
	if s, err := h.Sessions.GetByID(ctx, id); err == nil {
		slotsLeft = s.SlotsLeft()
	}
	memberName := ""
	if u, err := h.Users.FindByEmail(ctx, email); err == nil {
		memberName = u.RealName
	}
	ev := queue.ClaimCommittedEvent{
		SessionID:         res.SessionID,
		SessionTitle:      res.SessionTitle,
		MemberEmail:       email,
		MemberName:        memberName,
		Tier:              string(res.Tier),
		PricePaidEUR:      res.PricePaidEUR,
		SlotsLeft:         slotsLeft,
		SessionsCompleted: res.SessionsCompleted,
		CommittedAt:       res.BookedAt.Format(time.RFC3339),
	}
	if s, err := h.Sessions.GetByID(ctx, id); err == nil {
		ev.ScheduledDate = s.ScheduledDate
		ev.ScheduledTime = s.ScheduledTime
	}
	go func() {
		if err := queue_publisher.PublishClaimCommitted(context.Background(), ev); err != nil {
			logrus.WithError(err).Warn("claim: publish event failed")
		}
	}()

	return c.JSON(http.StatusCreated, echo.Map{"claim": res})
}

// claimError translates the orchestrator's typed rejections into HTTP
// responses.  Every rejection the state machine can produce has a row
// here; anything unrecognized is a 500.
func claimError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrUserNotFound):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	case errors.Is(err, repository.ErrProfileIncomplete):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "profile incomplete"})
	case errors.Is(err, repository.ErrSessionNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
	case errors.Is(err, repository.ErrAlreadyBooked):
		return c.JSON(http.StatusConflict, echo.Map{"error": "already booked"})
	case errors.Is(err, repository.ErrSoldOut):
		return c.JSON(http.StatusConflict, echo.Map{"error": "sold out"})
	case errors.Is(err, repository.ErrRewardRequired):
		return c.JSON(http.StatusConflict, echo.Map{"error": "reward required"})
	case errors.Is(err, repository.ErrCodeConsumed):
		return c.JSON(http.StatusConflict, echo.Map{"error": "code already consumed"})
	case errors.Is(err, repository.ErrInvalidCode):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid code"})
	case errors.Is(err, repository.ErrValidation):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid claim"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "claim failed"})
}
