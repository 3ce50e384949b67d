package ports

import (
	"context"

	"github.com/aretw0/courier/pkg/domain"
)

// SessionStore persists simulation sessions so a run can be inspected
// after (or while) its events are played back.
type SessionStore interface {
	// Save persists the session under sessionID, replacing any previous record.
	Save(ctx context.Context, sessionID string, session *domain.Session) error

	// Load retrieves the session stored under sessionID.
	// Returns domain.ErrSessionNotFound if there is none.
	Load(ctx context.Context, sessionID string) (*domain.Session, error)

	// Delete removes the session. Deleting a missing session is not an error.
	Delete(ctx context.Context, sessionID string) error

	// List returns the IDs of every stored session.
	List(ctx context.Context) ([]string, error)
}
