package observability

import (
	"context"

	"github.com/aretw0/courier/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes courier activity as Prometheus collectors.
type Metrics struct {
	Plans      prometheus.Counter
	RouteSteps prometheus.Histogram
	Emitted    prometheus.Counter
	Delivered  *prometheus.CounterVec
	Notices    *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them on reg.
// A nil reg uses prometheus.DefaultRegisterer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		Plans: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "courier_plans_total",
			Help: "Total number of planned routes",
		}),
		RouteSteps: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "courier_route_steps",
			Help:    "Number of steps per planned route",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}),
		Emitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "courier_steps_emitted_total",
			Help: "Total number of steps enqueued for playback",
		}),
		Delivered: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "courier_events_delivered_total",
				Help: "Total number of events delivered to listeners",
			},
			[]string{"channel"},
		),
		Notices: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "courier_notices_total",
				Help: "Total number of reported notices",
			},
			[]string{"policy"},
		),
	}
	reg.MustRegister(m.Plans, m.RouteSteps, m.Emitted, m.Delivered, m.Notices)
	return m
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnPlan: func(_ context.Context, e *domain.PlanEvent) {
			m.Plans.Inc()
			m.RouteSteps.Observe(float64(e.Steps))
		},
		OnEmit: func(context.Context, *domain.StepEvent) {
			m.Emitted.Inc()
		},
		OnDeliver: func(_ context.Context, e *domain.StepEvent) {
			m.Delivered.WithLabelValues(e.Channel).Inc()
		},
		OnNotice: func(_ context.Context, e *domain.NoticeEvent) {
			m.Notices.WithLabelValues(string(e.Notice.Policy)).Inc()
		},
	}
}
