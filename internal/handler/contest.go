package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/madshoots/club-api/internal/contest"
	"github.com/madshoots/club-api/internal/repository"
)

// ContestHandler exposes the post-session photo contests.  Contests are
// derived from the session registry; only entries and votes mutate
// state.
type ContestHandler struct {
	Contests *contest.Service
}

func NewContestHandler(svc *contest.Service) *ContestHandler {
	return &ContestHandler{Contests: svc}
}

// ListActive handles GET /v1/contests: every contest whose session has
// ended, most recent first, entries included.
func (h *ContestHandler) ListActive(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	contests, err := h.Contests.Active(ctx, time.Now())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"contests": contests})
}

type entryReq struct {
	Photographer string `json:"photographer"`
	ImageURL     string `json:"image_url"`
}

// SubmitEntry handles POST /v1/contests/:id/entries.  The entry is
// credited to the authenticated member; one entry per member and
// contest.
func (h *ContestHandler) SubmitEntry(c echo.Context) error {
	email, ok := c.Get("user_email").(string)
	if !ok || email == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid session id"})
	}
	var req entryReq
	if err := c.Bind(&req); err != nil || req.ImageURL == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "image_url required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	entry, err := h.Contests.SubmitEntry(ctx, time.Now(), id, req.Photographer, email, req.ImageURL)
	if err != nil {
		switch err {
		case repository.ErrSessionNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
		case repository.ErrValidation:
			return c.JSON(http.StatusConflict, echo.Map{"error": "contest not open yet"})
		case repository.ErrDuplicateEntry:
			return c.JSON(http.StatusConflict, echo.Map{"error": "already entered"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "submit failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"entry": entry})
}

// Vote handles POST /v1/contests/:id/entries/:entryID/vote.
func (h *ContestHandler) Vote(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid session id"})
	}
	entryID := c.Param("entryID")
	if entryID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "entry id required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Contests.Vote(ctx, time.Now(), id, entryID); err != nil {
		switch err {
		case repository.ErrSessionNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
		case repository.ErrValidation:
			return c.JSON(http.StatusConflict, echo.Map{"error": "contest not open yet"})
		case repository.ErrEntryNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "entry not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "vote failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
