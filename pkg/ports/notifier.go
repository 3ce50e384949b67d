package ports

import (
	"context"

	"github.com/aretw0/courier/pkg/domain"
)

// Notifier receives the anomalies reported while a route is planned.
// Implementations must not block for long: they run inside Plan.
type Notifier interface {
	Notify(ctx context.Context, notice domain.Notice)
}

// NotifierFunc adapts a plain function to the Notifier interface.
type NotifierFunc func(ctx context.Context, notice domain.Notice)

// Notify calls f(ctx, notice).
func (f NotifierFunc) Notify(ctx context.Context, notice domain.Notice) {
	f(ctx, notice)
}
