package app

import (
	"context"
	"strings"
	"unicode"

	"github.com/alexanderramin/plancraft/internal/domain"
)

// Source identifies the surface a command message came from.
type Source string

const (
	SourceCLI    Source = "cli"
	SourceRemote Source = "remote"
)

// CommandRequest is one message addressed to the command handlers.
type CommandRequest struct {
	Body         string
	Source       Source
	WorkspaceDir string
}

// Reply is a handler's answer. Files are relative to the workspace.
type Reply struct {
	Handled  bool
	Outcome  domain.RunOutcome
	Text     string
	PlanName string
	Files    []string
}

// NotHandled is the reply for messages that fall through.
var NotHandled = Reply{}

// Failed reports whether the reply ended a command unsuccessfully.
func (r Reply) Failed() bool {
	switch r.Outcome {
	case domain.OutcomeInvalid, domain.OutcomeNoQuestions, domain.OutcomeFailed:
		return true
	}
	return false
}

// parseCommand matches "<name>" or "<name><whitespace><rest>", ignoring
// case, and returns the trimmed rest. "/plans x" therefore does not match
// "/plan".
func parseCommand(body, name string) (string, bool) {
	body = strings.TrimSpace(body)
	if len(body) < len(name) || !strings.EqualFold(body[:len(name)], name) {
		return "", false
	}
	rest := body[len(name):]
	if rest == "" {
		return "", true
	}
	if r := []rune(rest)[0]; !unicode.IsSpace(r) {
		return "", false
	}
	return strings.TrimSpace(rest), true
}

// Router dispatches a message to the first handler that takes it.
type Router struct {
	handlers []Handler
}

func NewRouter(handlers ...Handler) *Router {
	return &Router{handlers: handlers}
}

func (r *Router) Handle(ctx context.Context, req CommandRequest) (Reply, error) {
	for _, h := range r.handlers {
		reply, err := h.Handle(ctx, req)
		if err != nil || reply.Handled {
			return reply, err
		}
	}
	return NotHandled, nil
}
