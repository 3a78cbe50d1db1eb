package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/madshoots/club-api/internal/model"
	"github.com/madshoots/club-api/internal/repository"
)

// ProposalHandler exposes member-suggested themes for future sessions.
type ProposalHandler struct {
	Proposals *repository.ProposalRepo
}

func NewProposalHandler(p *repository.ProposalRepo) *ProposalHandler {
	return &ProposalHandler{Proposals: p}
}

// List handles GET /v1/proposals, newest first.
func (h *ProposalHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	proposals, err := h.Proposals.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if proposals == nil {
		proposals = []model.Proposal{}
	}
	return c.JSON(http.StatusOK, echo.Map{"proposals": proposals})
}

type proposalReq struct {
	Theme string `json:"theme"`
}

// Create handles POST /v1/proposals.  The author is the authenticated
// member; the proposal starts with their own vote.
func (h *ProposalHandler) Create(c echo.Context) error {
	email, ok := c.Get("user_email").(string)
	if !ok || email == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req proposalReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Proposals.Add(ctx, req.Theme, email)
	if err != nil {
		if err == repository.ErrValidation {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "theme required"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"proposal": p})
}

// Vote handles POST /v1/proposals/:id/vote.
func (h *ProposalHandler) Vote(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "proposal id required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Proposals.Vote(ctx, id); err != nil {
		if err == repository.ErrProposalNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "proposal not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "vote failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
