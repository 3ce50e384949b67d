package runner

import (
	"log/slog"

	"github.com/aretw0/courier/pkg/session"
)

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.Logger = logger
	}
}

// WithInputHandler configures a custom IOHandler.
func WithInputHandler(handler IOHandler) Option {
	return func(r *Runner) {
		r.Handler = handler
	}
}

// WithSessions enables durable sessions: the session is saved after every
// delivery and when the run ends.
func WithSessions(m *session.Manager) Option {
	return func(r *Runner) {
		r.Sessions = m
	}
}

// WithSessionID sets the session ID used for events and persistence.
// When sessions are enabled and no ID is set, a random one is generated.
func WithSessionID(id string) Option {
	return func(r *Runner) {
		r.SessionID = id
	}
}
