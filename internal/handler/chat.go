package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/madshoots/club-api/internal/assistant"
	"github.com/madshoots/club-api/internal/repository"
)

// ChatHandler streams assistant replies to the client and persists each
// member's conversation.  The reply is written chunk by chunk as plain
// text so the UI can render it while the assistant is still talking.
type ChatHandler struct {
	Assistant assistant.Service
	History   *repository.ChatRepo
}

func NewChatHandler(svc assistant.Service, history *repository.ChatRepo) *ChatHandler {
	return &ChatHandler{Assistant: svc, History: history}
}

type chatReq struct {
	Text string `json:"text"`
}

// Send handles POST /v1/chat.  The stored history plus the new message
// goes to the assistant; the response is a chunked text/plain stream.
// The full exchange is appended to the member's history once the stream
// ends; an aborted stream stores nothing.
func (h *ChatHandler) Send(c echo.Context) error {
	email, ok := c.Get("user_email").(string)
	if !ok || email == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req chatReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Text) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "text required"})
	}

	ctx := c.Request().Context()
	history, err := h.History.History(ctx, email)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	chunks, err := h.Assistant.SendMessage(ctx, history, req.Text)
	if err != nil {
		logrus.WithError(err).Warn("chat: start stream failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "assistant unavailable"})
	}

	resp := c.Response()
	resp.Header().Set(echo.HeaderContentType, "text/plain; charset=utf-8")
	resp.WriteHeader(http.StatusOK)
	var reply strings.Builder
	for chunk := range chunks {
		reply.WriteString(chunk)
		if _, err := resp.Write([]byte(chunk)); err != nil {
			return nil // client went away; the context cancels the stream
		}
		resp.Flush()
	}

	// Persist the exchange with its own context: the request one may
	// already be done by the time the stream closes.
	sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := h.History.Append(sctx, email,
		assistant.Message{Role: "user", Text: req.Text},
		assistant.Message{Role: "model", Text: reply.String()},
	); err != nil {
		logrus.WithError(err).Warn("chat: save history failed")
	}
	return nil
}

// GetHistory handles GET /v1/chat/history: the member's stored
// conversation in chronological order.
func (h *ChatHandler) GetHistory(c echo.Context) error {
	email, ok := c.Get("user_email").(string)
	if !ok || email == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	history, err := h.History.History(ctx, email)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"history": history})
}
