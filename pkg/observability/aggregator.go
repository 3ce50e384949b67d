package observability

import (
	"context"
	"sync"

	"github.com/aretw0/courier/pkg/domain"
)

// Snapshot is a point-in-time view of the activity seen by an Aggregator.
type Snapshot struct {
	Plans     int            `json:"plans"`
	Emitted   int            `json:"emitted"`
	Delivered map[string]int `json:"delivered"`
	Notices   map[string]int `json:"notices"`
	Sessions  []string       `json:"sessions"`
}

// Aggregator combines the events of every run into a single in-process view.
type Aggregator struct {
	mu        sync.Mutex
	plans     int
	emitted   int
	delivered map[string]int
	notices   map[domain.Policy]int
	sessions  map[string]struct{}
	order     []string
}

// NewAggregator creates an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{
		delivered: make(map[string]int),
		notices:   make(map[domain.Policy]int),
		sessions:  make(map[string]struct{}),
	}
}

// Hooks returns lifecycle hooks feeding the aggregator.
func (a *Aggregator) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnPlan: func(_ context.Context, e *domain.PlanEvent) {
			a.mu.Lock()
			defer a.mu.Unlock()
			a.plans++
			a.seen(e.SessionID)
		},
		OnEmit: func(context.Context, *domain.StepEvent) {
			a.mu.Lock()
			defer a.mu.Unlock()
			a.emitted++
		},
		OnDeliver: func(_ context.Context, e *domain.StepEvent) {
			a.mu.Lock()
			defer a.mu.Unlock()
			a.delivered[e.Channel]++
		},
		OnNotice: func(_ context.Context, e *domain.NoticeEvent) {
			a.mu.Lock()
			defer a.mu.Unlock()
			a.notices[e.Notice.Policy]++
		},
	}
}

func (a *Aggregator) seen(sessionID string) {
	if sessionID == "" {
		return
	}
	if _, ok := a.sessions[sessionID]; ok {
		return
	}
	a.sessions[sessionID] = struct{}{}
	a.order = append(a.order, sessionID)
}

// Snapshot returns a copy of the current counters.
func (a *Aggregator) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()

	snap := Snapshot{
		Plans:     a.plans,
		Emitted:   a.emitted,
		Delivered: make(map[string]int, len(a.delivered)),
		Notices:   make(map[string]int, len(a.notices)),
		Sessions:  append([]string{}, a.order...),
	}
	for k, v := range a.delivered {
		snap.Delivered[k] = v
	}
	for k, v := range a.notices {
		snap.Notices[string(k)] = v
	}
	return snap
}
