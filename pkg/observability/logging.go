package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/courier/pkg/domain"
)

// LoggingHooks logs every lifecycle event on logger.
// Deliveries are logged at debug level.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnPlan: func(ctx context.Context, e *domain.PlanEvent) {
			logger.InfoContext(ctx, "route_planned",
				"session_id", e.SessionID,
				"route", e.Route,
				"steps", e.Steps,
				"skipped", e.Skipped,
			)
		},
		OnDeliver: func(ctx context.Context, e *domain.StepEvent) {
			logger.DebugContext(ctx, "event_delivered",
				"session_id", e.SessionID,
				"channel", e.Channel,
				"direction", e.Step.Direction,
				"position", e.Step.Position.String(),
			)
		},
		OnNotice: func(ctx context.Context, e *domain.NoticeEvent) {
			logger.InfoContext(ctx, "notice",
				"session_id", e.SessionID,
				"policy", e.Notice.Policy,
				"message", e.Notice.Message,
			)
		},
	}
}
