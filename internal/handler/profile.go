package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/madshoots/club-api/internal/repository"
)

// ProfileHandler covers the member's own record: profile updates, the
// booking history and the club broadcast.
type ProfileHandler struct {
	Users     *repository.UserRepo
	Sessions  *repository.SessionRepo
	Broadcast *repository.BroadcastRepo
}

func NewProfileHandler(u *repository.UserRepo, s *repository.SessionRepo, b *repository.BroadcastRepo) *ProfileHandler {
	return &ProfileHandler{Users: u, Sessions: s, Broadcast: b}
}

type profileReq struct {
	Name      *string `json:"name"`
	RealName  *string `json:"real_name"`
	Instagram *string `json:"instagram"`
	Phone     *string `json:"phone"`
}

// Update handles PUT /v1/me/profile.  Absent fields stay untouched;
// present fields are trimmed and stored.  Claims require real_name and
// instagram, so this is the endpoint members hit when a claim answers
// "profile incomplete".
func (h *ProfileHandler) Update(c echo.Context) error {
	email, ok := c.Get("user_email").(string)
	if !ok || email == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req profileReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.UpdateFields(ctx, email, repository.ProfileUpdate{
		Name:      req.Name,
		RealName:  req.RealName,
		Instagram: req.Instagram,
		Phone:     req.Phone,
	})
	if err != nil {
		if err == repository.ErrUserNotFound {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"user": toUserPart(u)})
}

// bookingPart joins one history line with its session, so the client
// renders the history without extra round trips.
type bookingPart struct {
	SessionID int64        `json:"session_id"`
	Tier      string       `json:"tier"`
	BookedAt  time.Time    `json:"booked_at"`
	Session   *sessionPart `json:"session,omitempty"`
}

// Bookings handles GET /v1/me/bookings: the member's booking history,
// newest last, each line joined with the session when it still exists.
func (h *ProfileHandler) Bookings(c echo.Context) error {
	email, ok := c.Get("user_email").(string)
	if !ok || email == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.FindByEmail(ctx, email)
	if err != nil {
		if err == repository.ErrUserNotFound {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	out := make([]bookingPart, 0, len(u.BookingHistory))
	for _, rec := range u.BookingHistory {
		part := bookingPart{
			SessionID: rec.SessionID,
			Tier:      string(rec.Tier),
			BookedAt:  rec.BookedAt,
		}
		if s, err := h.Sessions.GetByID(ctx, rec.SessionID); err == nil {
			sp := toSessionPart(s)
			part.Session = &sp
		}
		out = append(out, part)
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": out})
}

// GetBroadcast handles GET /v1/broadcast: the single urgent message, or
// an empty string when none is published.
func (h *ProfileHandler) GetBroadcast(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	msg, err := h.Broadcast.Current(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": msg})
}
