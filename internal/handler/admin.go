package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/madshoots/club-api/internal/model"
	"github.com/madshoots/club-api/internal/repository"
)

// AdminHandler groups the admin panel operations: session creation,
// one-time code management, master passwords, attendee lists and the
// urgent broadcast.  All routes are behind RequireRole("ADMIN").
type AdminHandler struct {
	Sessions  *repository.SessionRepo
	Codes     *repository.AccessCodeRepo
	Users     *repository.UserRepo
	Broadcast *repository.BroadcastRepo
}

func NewAdminHandler(s *repository.SessionRepo, codes *repository.AccessCodeRepo, u *repository.UserRepo, b *repository.BroadcastRepo) *AdminHandler {
	return &AdminHandler{Sessions: s, Codes: codes, Users: u, Broadcast: b}
}

type createSessionReq struct {
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Tag             string   `json:"tag"`
	ScheduledDate   string   `json:"scheduled_date"`
	ScheduledTime   string   `json:"scheduled_time"`
	Location        string   `json:"location"`
	MapsLink        string   `json:"maps_link"`
	Capacity        int      `json:"capacity"`
	PriceEUR        int      `json:"price_eur"`
	CoverImage      string   `json:"cover_image"`
	MoodboardImages []string `json:"moodboard_images"`
}

// CreateSession handles POST /v1/admin/sessions.  Only the title is
// required; everything else falls back to the configured defaults.
func (h *AdminHandler) CreateSession(c echo.Context) error {
	var req createSessionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	s, err := h.Sessions.Create(ctx, model.SessionDraft{
		Title:           req.Title,
		Description:     req.Description,
		Tag:             req.Tag,
		ScheduledDate:   req.ScheduledDate,
		ScheduledTime:   req.ScheduledTime,
		Location:        req.Location,
		MapsLink:        req.MapsLink,
		Capacity:        req.Capacity,
		PriceEUR:        req.PriceEUR,
		CoverImage:      req.CoverImage,
		MoodboardImages: req.MoodboardImages,
	})
	if err != nil {
		if err == repository.ErrValidation {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "title required"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create session failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"session": toSessionPart(s)})
}

// ListSessions handles GET /v1/admin/sessions: every session, past ones
// included, with raw occupancy numbers.
func (h *AdminHandler) ListSessions(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	all, err := h.Sessions.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"sessions": all})
}

// IssueCode handles POST /v1/admin/codes: generate one fresh one-time
// code and return it.
func (h *AdminHandler) IssueCode(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	code, err := h.Codes.IssueCode(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue code failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"code": code})
}

// ListCodes handles GET /v1/admin/codes, newest first.
func (h *AdminHandler) ListCodes(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	codes, err := h.Codes.ListCodes(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if codes == nil {
		codes = []model.OneTimeCode{}
	}
	return c.JSON(http.StatusOK, echo.Map{"codes": codes})
}

// RevokeCode handles DELETE /v1/admin/codes/:code.  Revoking an absent
// code still answers 204: the end state is the same.
func (h *AdminHandler) RevokeCode(c echo.Context) error {
	code := c.Param("code")
	if code == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "code required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Codes.Revoke(ctx, code); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "revoke failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

type passwordReq struct {
	Password string `json:"password"`
}

// SetBookingPassword handles PUT /v1/admin/passwords/booking.
func (h *AdminHandler) SetBookingPassword(c echo.Context) error {
	return h.setPassword(c, h.Codes.SetBookingPassword)
}

// SetRewardPassword handles PUT /v1/admin/passwords/reward.
func (h *AdminHandler) SetRewardPassword(c echo.Context) error {
	return h.setPassword(c, h.Codes.SetRewardPassword)
}

func (h *AdminHandler) setPassword(c echo.Context, set func(context.Context, string) error) error {
	var req passwordReq
	if err := c.Bind(&req); err != nil || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := set(ctx, req.Password); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save password failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// GetPasswords handles GET /v1/admin/passwords so the admin panel can
// display the current master passwords.
func (h *AdminHandler) GetPasswords(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	pw, err := h.Codes.Passwords(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"booking_password": pw.BookingPassword,
		"reward_password":  pw.RewardPassword,
	})
}

// attendeePart is one door-list line: name, contact and tier for a
// session the member booked.
type attendeePart struct {
	Email     string     `json:"email"`
	Name      string     `json:"name"`
	RealName  string     `json:"real_name"`
	Instagram string     `json:"instagram"`
	Phone     string     `json:"phone,omitempty"`
	Tier      model.Tier `json:"tier"`
	BookedAt  time.Time  `json:"booked_at"`
}

// Attendees handles GET /v1/admin/sessions/:id/attendees: the door list
// for one session, assembled from every member's booking history.
func (h *AdminHandler) Attendees(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid session id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Sessions.GetByID(ctx, id); err != nil {
		if err == repository.ErrSessionNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	users, err := h.Users.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	attendees := make([]attendeePart, 0)
	for _, u := range users {
		for _, rec := range u.BookingHistory {
			if rec.SessionID != id {
				continue
			}
			attendees = append(attendees, attendeePart{
				Email:     u.Email,
				Name:      u.Name,
				RealName:  u.RealName,
				Instagram: u.Instagram,
				Phone:     u.Phone,
				Tier:      rec.Tier,
				BookedAt:  rec.BookedAt,
			})
			break
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"attendees": attendees})
}

type broadcastReq struct {
	Message string `json:"message"`
}

// PublishBroadcast handles PUT /v1/admin/broadcast: replace the urgent
// message every member sees.
func (h *AdminHandler) PublishBroadcast(c echo.Context) error {
	var req broadcastReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Broadcast.Publish(ctx, req.Message); err != nil {
		if err == repository.ErrValidation {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "message required"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "publish failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ClearBroadcast handles DELETE /v1/admin/broadcast.
func (h *AdminHandler) ClearBroadcast(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Broadcast.Clear(ctx); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "clear failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
