// Package assistant defines the chat collaborator contract.  The club
// treats the assistant as an external service consumed only through
// this interface; the API never depends on what the assistant says,
// only on the agenda summaries it forwards as context.
package assistant

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/madshoots/club-api/internal/model"
	"github.com/madshoots/club-api/internal/repository"
)

// Message is one turn of a chat history.
type Message = model.ChatMessage

// Service streams a reply to a new message given the prior history.
// The returned channel yields a finite sequence of text chunks and is
// closed when the reply ends; a stream is not restartable mid-way.
type Service interface {
	SendMessage(ctx context.Context, history []Message, text string) (<-chan string, error)
}

// AgendaAssistant is the bundled implementation: it answers with the
// live agenda and capacity status, the one piece of context the real
// assistant is prompted with.  It stands in wherever the external chat
// service is not configured.
type AgendaAssistant struct {
	sessions *repository.SessionRepo
	now      func() time.Time
}

// NewAgendaAssistant wires the assistant to the session registry.
func NewAgendaAssistant(sessions *repository.SessionRepo) *AgendaAssistant {
	return &AgendaAssistant{sessions: sessions, now: time.Now}
}

// SendMessage streams the agenda summary.  Chunks are emitted line by
// line; closing the context stops the stream without side effects, as
// no state is touched.
func (a *AgendaAssistant) SendMessage(ctx context.Context, _ []Message, _ string) (<-chan string, error) {
	active, err := a.sessions.ListActive(ctx, a.now())
	if err != nil {
		return nil, err
	}

	lines := []string{"Esta es la agenda ahora mismo:\n"}
	if len(active) == 0 {
		lines = append(lines, "No hay sesiones abiertas. Vuelve pronto.\n")
	}
	for _, s := range active {
		left := s.SlotsLeft()
		line := fmt.Sprintf("- %s (%s): quedan %d plazas.\n", s.Title, s.ScheduledDate, left)
		if left > 0 && left < 3 {
			line = strings.TrimSuffix(line, "\n") + " ¡Date prisa!\n"
		}
		lines = append(lines, line)
	}

	out := make(chan string)
	go func() {
		defer close(out)
		for _, line := range lines {
			select {
			case out <- line:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}
