package courier

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/courier/internal/compiler"
	"github.com/aretw0/courier/internal/logging"
	"github.com/aretw0/courier/internal/runtime"
	"github.com/aretw0/courier/pkg/domain"
	"github.com/aretw0/courier/pkg/playback"
	"github.com/aretw0/courier/pkg/ports"
)

// Engine is the high-level entry point for the courier library.
// It parses textual input, plans routes and starts paced playbacks.
type Engine struct {
	parser   *compiler.Parser
	hooks    domain.LifecycleHooks
	notifier ports.Notifier
	logger   *slog.Logger
	delay    time.Duration
	clock    playback.Clock
}

var _ ports.StatelessEngine = (*Engine)(nil)

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks for every run.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithNotifier sets the receiver of planning notices.
func WithNotifier(n ports.Notifier) Option {
	return func(e *Engine) {
		e.notifier = n
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithDelay sets the pause before each delivery (default playback.DefaultDelay).
func WithDelay(d time.Duration) Option {
	return func(e *Engine) {
		e.delay = d
	}
}

// WithClock replaces the real-time clock used by playback.
func WithClock(c playback.Clock) Option {
	return func(e *Engine) {
		e.clock = c
	}
}

// New initializes a courier Engine.
func New(opts ...Option) *Engine {
	eng := &Engine{
		parser: compiler.NewParser(),
		delay:  playback.DefaultDelay,
		clock:  playback.SystemClock{},
	}
	for _, opt := range opts {
		opt(eng)
	}
	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}
	return eng
}

// Delay returns the configured per-delivery delay.
func (e *Engine) Delay() time.Duration {
	return e.delay
}

func (e *Engine) simulator(sessionID string, hooks domain.LifecycleHooks) *runtime.Simulator {
	logger := e.logger
	if sessionID != "" {
		logger = logger.With("session_id", sessionID)
	}
	return runtime.NewSimulator(
		runtime.WithLogger(logger),
		runtime.WithLifecycleHooks(domain.MergeHooks(e.hooks, hooks)),
		runtime.WithNotifier(e.notifier),
		runtime.WithSessionID(sessionID),
		runtime.WithPipelineOptions(
			playback.WithDelay(e.delay),
			playback.WithClock(e.clock),
		),
	)
}

// parse validates input and reports the coordinates it had to default.
func (e *Engine) parse(ctx context.Context, sim *runtime.Simulator, input string) (*compiler.Input, error) {
	in, err := e.parser.Parse(input)
	if err != nil {
		return nil, err
	}
	for _, n := range in.Notices {
		sim.Report(ctx, n)
	}
	return in, nil
}

// Plan parses input and computes its route without playing it back.
func (e *Engine) Plan(ctx context.Context, input string) (*domain.Route, error) {
	sim := e.simulator("", domain.LifecycleHooks{})
	in, err := e.parse(ctx, sim, input)
	if err != nil {
		return nil, err
	}

	route := sim.Plan(ctx, runtime.Generate(in.Rows, in.Cols), in.Points)
	route.Notices = append(append([]domain.Notice{}, in.Notices...), route.Notices...)
	return route, nil
}

// PlanPoints computes the route for already parsed values.
// Invalid dimensions yield the empty grid, so every target is skipped.
func (e *Engine) PlanPoints(ctx context.Context, rows, cols int, points []domain.Point) *domain.Route {
	return e.simulator("", domain.LifecycleHooks{}).Plan(ctx, runtime.Generate(rows, cols), points)
}

// Start plans input and begins its playback. hooks observe this run only.
// The returned Run must be closed or waited on.
func (e *Engine) Start(ctx context.Context, sessionID, input string, hooks domain.LifecycleHooks) (*Run, error) {
	sim := e.simulator(sessionID, hooks)
	in, err := e.parse(ctx, sim, input)
	if err != nil {
		return nil, err
	}

	route, err := sim.Simulate(ctx, runtime.Generate(in.Rows, in.Cols), in.Points)
	if err != nil {
		sim.Close()
		return nil, err
	}
	route.Notices = append(append([]domain.Notice{}, in.Notices...), route.Notices...)

	s := domain.NewSession(sessionID)
	s.Input = in.Raw
	s.Rows, s.Cols = in.Rows, in.Cols
	s.Points = in.Points
	s.Route = route.String()
	s.Status = domain.StatusRunning

	return &Run{sim: sim, route: route, base: s}, nil
}

// Simulate runs Start and waits for the playback to drain.
// When ctx ends first the run is cancelled and the partial session is
// returned along with ctx's error.
func (e *Engine) Simulate(ctx context.Context, sessionID, input string, hooks domain.LifecycleHooks) (*domain.Session, error) {
	run, err := e.Start(ctx, sessionID, input, hooks)
	if err != nil {
		return nil, err
	}

	if err := run.Wait(ctx); err != nil {
		run.Close()
		return run.Session(), err
	}
	return run.Session(), nil
}

// Run is one playback started by Engine.Start.
type Run struct {
	sim   *runtime.Simulator
	route *domain.Route
	base  *domain.Session

	mu     sync.Mutex
	status domain.SessionStatus
}

// Route returns the planned route.
func (r *Run) Route() *domain.Route {
	return r.route
}

// Position returns the last delivered position.
func (r *Run) Position() domain.Point {
	return r.sim.Position()
}

// Result returns the direction codes delivered so far.
func (r *Run) Result() string {
	return r.sim.ResultString()
}

// AtPosition reports whether the courier currently stands on p.
func (r *Run) AtPosition(p domain.Point) bool {
	return r.sim.AtPosition(p)
}

// Wait blocks until every event was delivered.
func (r *Run) Wait(ctx context.Context) error {
	err := r.sim.Wait(ctx)
	if err == nil {
		r.setStatus(domain.StatusCompleted)
	} else if errors.Is(err, domain.ErrPipelineClosed) {
		r.setStatus(domain.StatusCancelled)
	}
	return err
}

// Close cancels the playback, dropping undelivered events.
func (r *Run) Close() {
	r.sim.Close()
	r.setStatus(domain.StatusCancelled)
}

func (r *Run) setStatus(st domain.SessionStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.status == "" {
		r.status = st
	}
}

// Session returns a snapshot of the run as a persistable session.
func (r *Run) Session() *domain.Session {
	s := r.base.Clone()
	state := r.sim.Snapshot()
	s.Result = domain.JoinDirections(state.Result)
	s.Current = state.Current
	s.UpdatedAt = time.Now().UTC()

	r.mu.Lock()
	if r.status != "" {
		s.Status = r.status
	}
	r.mu.Unlock()
	return s
}
