package runtime

import (
	"context"
	"log/slog"
	"sync"

	"github.com/aretw0/courier/internal/logging"
	"github.com/aretw0/courier/pkg/domain"
	"github.com/aretw0/courier/pkg/playback"
	"github.com/aretw0/courier/pkg/ports"
)

// State is the observable simulation state: the last delivered position and
// the directions delivered so far.
type State struct {
	Current domain.Point       `json:"current"`
	Result  []domain.Direction `json:"result"`
}

// Simulator plans routes and plays them back through a playback.Pipeline.
//
// Its State is only mutated by pipeline delivery callbacks. Starting a new
// simulation cancels the one in flight: its undelivered events are dropped
// and late callbacks from it are ignored.
type Simulator struct {
	logger    *slog.Logger
	hooks     domain.LifecycleHooks
	notifier  ports.Notifier
	sessionID string
	pipeOpts  []playback.Option

	mu       sync.Mutex
	state    State
	pipeline *playback.Pipeline
	gen      uint64
}

// Option configures the Simulator.
type Option func(*Simulator)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Simulator) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(s *Simulator) {
		s.hooks = hooks
	}
}

// WithNotifier sets the receiver of out-of-grid notices.
func WithNotifier(n ports.Notifier) Option {
	return func(s *Simulator) {
		s.notifier = n
	}
}

// WithSessionID tags emitted events with a session ID.
func WithSessionID(id string) Option {
	return func(s *Simulator) {
		s.sessionID = id
	}
}

// WithPipelineOptions configures every pipeline the simulator creates.
func WithPipelineOptions(opts ...playback.Option) Option {
	return func(s *Simulator) {
		s.pipeOpts = append(s.pipeOpts, opts...)
	}
}

// NewSimulator creates an idle simulator positioned at the origin.
func NewSimulator(opts ...Option) *Simulator {
	s := &Simulator{
		logger: logging.NewNop(),
		state:  State{Current: domain.Origin},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Plan orders points, drops the legs whose target lies outside grid and walks
// the others. It never fails: anomalies are returned as notices.
func (s *Simulator) Plan(ctx context.Context, grid domain.Grid, points []domain.Point) *domain.Route {
	route := &domain.Route{
		Rows:  grid.Rows,
		Cols:  grid.Cols,
		Stops: Order(points),
		Steps: []domain.RouteStep{},
	}

	if grid.IsEmpty() {
		s.logger.Debug("planning on empty grid", "policy", domain.PolicyEmptyGrid, "rows", grid.Rows, "cols", grid.Cols)
	}

	cursor := domain.Origin
	for _, stop := range route.Stops {
		if !ContainsPoint(grid, stop.Value) {
			notice := domain.NewOutOfGridNotice(stop.Value)
			route.Skipped = append(route.Skipped, stop.Value)
			route.Notices = append(route.Notices, notice)
			s.Report(ctx, notice)
			continue
		}

		Walk(cursor, stop.Value, stop.Step, func(step domain.RouteStep) {
			route.Steps = append(route.Steps, step)
		})
		cursor = stop.Value
	}

	if s.hooks.OnPlan != nil {
		s.hooks.OnPlan(ctx, &domain.PlanEvent{
			EventBase: domain.NewEventBase(domain.EventPlan, s.sessionID),
			Rows:      route.Rows,
			Cols:      route.Cols,
			Route:     route.String(),
			Stops:     route.Stops,
			Steps:     len(route.Steps),
			Skipped:   len(route.Skipped),
		})
	}
	s.logger.Debug("route planned",
		"stops", len(route.Stops),
		"steps", len(route.Steps),
		"skipped", len(route.Skipped),
	)

	return route
}

// Simulate plans the route and enqueues every step for playback.
// Any simulation still in flight is cancelled first and the state is reset
// to the origin with an empty result. It must not be called from a delivery
// hook, since cancelling waits for the running delivery to return.
func (s *Simulator) Simulate(ctx context.Context, grid domain.Grid, points []domain.Point) (*domain.Route, error) {
	pipeline, gen := s.restart()

	route := s.Plan(ctx, grid, points)
	for _, step := range route.Steps {
		if err := pipeline.Emit(step); err != nil {
			return route, err
		}
		if s.hooks.OnEmit != nil {
			s.hooks.OnEmit(ctx, &domain.StepEvent{
				EventBase: domain.NewEventBase(domain.EventEmit, s.sessionID),
				Step:      step,
			})
		}
	}

	s.logger.Debug("simulation started", "generation", gen, "events", len(route.Steps))
	return route, nil
}

// restart closes the current pipeline, resets the state and wires a new one.
func (s *Simulator) restart() (*playback.Pipeline, uint64) {
	s.mu.Lock()
	prev := s.pipeline
	s.gen++
	gen := s.gen
	s.state = State{Current: domain.Origin}

	opts := append([]playback.Option{playback.WithLogger(s.logger)}, s.pipeOpts...)
	pipeline := playback.New(opts...)
	s.pipeline = pipeline
	s.mu.Unlock()

	if prev != nil {
		prev.Close()
		<-prev.Done()
	}

	ctx := context.Background()
	pipeline.OnDirection(func(step domain.RouteStep) {
		if !s.apply(gen, func(st *State) { st.Result = append(st.Result, step.Direction) }) {
			return
		}
		s.delivered(ctx, domain.ChannelDirection, step)
	})
	pipeline.OnPosition(func(p domain.Point) {
		if !s.apply(gen, func(st *State) { st.Current = p }) {
			return
		}
		s.delivered(ctx, domain.ChannelPosition, domain.RouteStep{Position: p})
	})

	return pipeline, gen
}

// apply mutates the state if gen is still the live simulation.
func (s *Simulator) apply(gen uint64, fn func(*State)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return false
	}
	fn(&s.state)
	return true
}

func (s *Simulator) delivered(ctx context.Context, channel string, step domain.RouteStep) {
	if s.hooks.OnDeliver == nil {
		return
	}
	s.hooks.OnDeliver(ctx, &domain.StepEvent{
		EventBase: domain.NewEventBase(domain.EventDeliver, s.sessionID),
		Channel:   channel,
		Step:      step,
	})
}

// Report logs notice and forwards it to the notifier and the OnNotice hook.
func (s *Simulator) Report(ctx context.Context, notice domain.Notice) {
	s.logger.Warn(notice.Message, "policy", notice.Policy, "point", notice.Point.String())
	if s.notifier != nil {
		s.notifier.Notify(ctx, notice)
	}
	if s.hooks.OnNotice != nil {
		s.hooks.OnNotice(ctx, &domain.NoticeEvent{
			EventBase: domain.NewEventBase(domain.EventNotice, s.sessionID),
			Notice:    notice,
		})
	}
}

// Position returns the last delivered position.
func (s *Simulator) Position() domain.Point {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Current
}

// Result returns a copy of the directions delivered so far.
func (s *Simulator) Result() []domain.Direction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Direction, len(s.state.Result))
	copy(out, s.state.Result)
	return out
}

// ResultString concatenates the delivered direction codes.
func (s *Simulator) ResultString() string {
	return domain.JoinDirections(s.Result())
}

// AtPosition reports whether the courier currently stands on p.
func (s *Simulator) AtPosition(p domain.Point) bool {
	return s.Position().Equal(p)
}

// Snapshot returns a copy of the whole state.
func (s *Simulator) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make([]domain.Direction, len(s.state.Result))
	copy(result, s.state.Result)
	return State{Current: s.state.Current, Result: result}
}

// Wait blocks until the current simulation drained. It returns immediately
// when nothing was simulated, and domain.ErrPipelineClosed when the
// simulation was cancelled.
func (s *Simulator) Wait(ctx context.Context) error {
	s.mu.Lock()
	pipeline := s.pipeline
	s.mu.Unlock()

	if pipeline == nil {
		return nil
	}
	return pipeline.Wait(ctx)
}

// Close cancels the simulation in flight. The state keeps whatever was
// delivered before the call.
func (s *Simulator) Close() {
	s.mu.Lock()
	pipeline := s.pipeline
	s.gen++
	s.mu.Unlock()

	if pipeline != nil {
		pipeline.Close()
	}
}
