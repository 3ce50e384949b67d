package ports

import (
	"context"

	"github.com/aretw0/courier/pkg/domain"
)

// StatelessEngine is the engine surface used by request-scoped adapters
// (HTTP, MCP). Each call parses its own input and owns its own playback.
type StatelessEngine interface {
	// Plan parses input and computes the route without playing it back.
	// Returns an error wrapping domain.ErrInvalidInput for malformed input.
	Plan(ctx context.Context, input string) (*domain.Route, error)

	// Simulate plans input and plays the route back, blocking until every
	// event was delivered or ctx is done. hooks observe this run only.
	Simulate(ctx context.Context, sessionID, input string, hooks domain.LifecycleHooks) (*domain.Session, error)
}
