package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventPlan    EventType = "plan"
	EventEmit    EventType = "emit"
	EventDeliver EventType = "deliver"
	EventNotice  EventType = "notice"
)

// Playback channel names carried by StepEvent.
const (
	ChannelDirection = "direction"
	ChannelPosition  = "position"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id,omitempty"`
}

// PlanEvent is raised once a route has been computed.
type PlanEvent struct {
	EventBase
	Rows    int    `json:"rows"`
	Cols    int    `json:"cols"`
	Route   string `json:"route"`
	Stops   []Stop `json:"stops"`
	Steps   int    `json:"steps"`
	Skipped int    `json:"skipped"`
}

// Targets returns the stop values in visiting order.
func (e *PlanEvent) Targets() []Point {
	out := make([]Point, len(e.Stops))
	for i, s := range e.Stops {
		out[i] = s.Value
	}
	return out
}

// StepEvent is raised when a route step is enqueued (emit) or handed to listeners (deliver).
type StepEvent struct {
	EventBase
	Channel string    `json:"channel,omitempty"`
	Step    RouteStep `json:"step"`
}

// NoticeEvent is raised for every reported anomaly.
type NoticeEvent struct {
	EventBase
	Notice Notice `json:"notice"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnPlan    func(context.Context, *PlanEvent)
	OnEmit    func(context.Context, *StepEvent)
	OnDeliver func(context.Context, *StepEvent)
	OnNotice  func(context.Context, *NoticeEvent)
}

// NewEventBase stamps an event with the current time.
func NewEventBase(t EventType, sessionID string) EventBase {
	return EventBase{Timestamp: time.Now(), Type: t, SessionID: sessionID}
}

// MergeHooks returns hooks that call every non-nil callback of hs in order.
func MergeHooks(hs ...LifecycleHooks) LifecycleHooks {
	var merged LifecycleHooks
	for _, h := range hs {
		h := h
		if h.OnPlan != nil {
			prev := merged.OnPlan
			merged.OnPlan = func(ctx context.Context, e *PlanEvent) {
				if prev != nil {
					prev(ctx, e)
				}
				h.OnPlan(ctx, e)
			}
		}
		if h.OnEmit != nil {
			prev := merged.OnEmit
			merged.OnEmit = func(ctx context.Context, e *StepEvent) {
				if prev != nil {
					prev(ctx, e)
				}
				h.OnEmit(ctx, e)
			}
		}
		if h.OnDeliver != nil {
			prev := merged.OnDeliver
			merged.OnDeliver = func(ctx context.Context, e *StepEvent) {
				if prev != nil {
					prev(ctx, e)
				}
				h.OnDeliver(ctx, e)
			}
		}
		if h.OnNotice != nil {
			prev := merged.OnNotice
			merged.OnNotice = func(ctx context.Context, e *NoticeEvent) {
				if prev != nil {
					prev(ctx, e)
				}
				h.OnNotice(ctx, e)
			}
		}
	}
	return merged
}
