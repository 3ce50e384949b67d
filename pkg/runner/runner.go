package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/aretw0/courier/internal/logging"
	"github.com/aretw0/courier/pkg/domain"
	"github.com/aretw0/courier/pkg/ports"
	"github.com/aretw0/courier/pkg/session"
	"github.com/google/uuid"
)

// Runner drives one simulation and presents it through an IOHandler.
// This allows for easy testing and integration with different frontends (CLI, TUI, etc).
type Runner struct {
	// Handler is the strategy for IO. Defaults to a TextHandler on Stdin/Stdout.
	Handler IOHandler

	// Logger is used for internal debug logging.
	Logger *slog.Logger

	// Sessions persists the session while it plays. If nil, sessions are ephemeral.
	Sessions *session.Manager

	// SessionID identifies the run in events and in Sessions.
	SessionID string
}

// NewRunner creates a Runner.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{}
	for _, opt := range opts {
		opt(r)
	}
	if r.Logger == nil {
		r.Logger = logging.NewNop()
	}
	if r.Handler == nil {
		r.Handler = NewTextHandler(os.Stdout)
	}
	if r.SessionID == "" && r.Sessions != nil {
		r.SessionID = uuid.New().String()
	}
	return r
}

// Run plays input back until every event was delivered.
//
// When input is empty the runner resumes the stored session's input, or
// prompts for one. Prompted input that fails to parse is asked again.
// An interrupt cancels the playback; the partial session is returned
// together with the cancellation error.
func (r *Runner) Run(ctx context.Context, engine ports.StatelessEngine, input string) (*domain.Session, error) {
	signals := NewSignalManager(ctx)
	defer signals.Stop()
	ctx = signals.Context()

	if input == "" && r.Sessions != nil {
		if s, err := r.Sessions.Load(ctx, r.SessionID); err == nil && s.Input != "" {
			input = s.Input
			r.Logger.Debug("resuming stored input", "session_id", r.SessionID)
		}
	}

	prompted := input == ""
	for {
		if prompted {
			var err error
			input, err = r.prompt(ctx, signals)
			if err != nil {
				return nil, err
			}
		}

		s, err := r.play(ctx, engine, input)
		if prompted && errors.Is(err, domain.ErrInvalidInput) {
			_ = r.Handler.SystemOutput(ctx, err.Error())
			continue
		}
		if err != nil && signals.Interrupted() {
			_ = r.Handler.SystemOutput(context.Background(), "Interrupted")
		}
		return s, err
	}
}

func (r *Runner) prompt(ctx context.Context, signals *SignalManager) (string, error) {
	if err := r.Handler.SystemOutput(ctx, fmt.Sprintf("Enter a grid and targets, e.g. %s (empty for the default)", domain.DefaultInput)); err != nil {
		return "", fmt.Errorf("output error: %w", err)
	}

	val, err := r.Handler.Input(ctx)
	if err != nil {
		signals.CheckRace()
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if err == io.EOF {
			return "", err
		}
		return "", fmt.Errorf("input error: %w", err)
	}
	if val == "" {
		return domain.DefaultInput, nil
	}
	return val, nil
}

func (r *Runner) play(ctx context.Context, engine ports.StatelessEngine, input string) (*domain.Session, error) {
	if r.Sessions != nil {
		if _, err := r.Sessions.LoadOrCreate(ctx, r.SessionID, input); err != nil {
			return nil, err
		}
	}

	t := &tracker{runner: r, current: domain.NewSession(r.SessionID)}
	t.current.Input = input

	final, err := engine.Simulate(ctx, r.SessionID, input, t.hooks())
	if final == nil {
		return nil, err
	}

	t.finish(final)
	if saveErr := r.save(final); saveErr != nil {
		return final, errors.Join(err, fmt.Errorf("critical persistence error: %w", saveErr))
	}
	return final, err
}

func (r *Runner) save(s *domain.Session) error {
	if r.Sessions == nil {
		return nil
	}
	// The run's own ctx may be the reason we stopped.
	if err := r.Sessions.Save(context.Background(), r.SessionID, s); err != nil {
		return err
	}
	r.Logger.Debug("session saved", "session_id", r.SessionID, "result", s.Result, "status", s.Status)
	return nil
}

// tracker mirrors the engine's deliveries into a local session and turns
// them into handler events. Deliveries arrive on two goroutines.
type tracker struct {
	runner *Runner

	mu      sync.Mutex
	current *domain.Session
}

func (t *tracker) hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnPlan: func(ctx context.Context, e *domain.PlanEvent) {
			t.mu.Lock()
			defer t.mu.Unlock()
			t.current.Rows, t.current.Cols = e.Rows, e.Cols
			t.current.Route = e.Route
			t.current.Points = e.Targets()
			t.current.Status = domain.StatusRunning
			t.output(ctx, Event{Type: EventPlan, Plan: e, Session: t.current.Clone()})
		},
		OnNotice: func(ctx context.Context, e *domain.NoticeEvent) {
			t.mu.Lock()
			defer t.mu.Unlock()
			n := e.Notice
			t.output(ctx, Event{Type: EventNotice, Notice: &n})
		},
		OnDeliver: func(ctx context.Context, e *domain.StepEvent) {
			t.mu.Lock()
			defer t.mu.Unlock()
			t.deliver(ctx, e)
		},
	}
}

func (t *tracker) deliver(ctx context.Context, e *domain.StepEvent) {
	prev := t.current.Clone()
	switch e.Channel {
	case domain.ChannelDirection:
		t.current.Result += e.Step.Direction.Code()
	case domain.ChannelPosition:
		t.current.Current = e.Step.Position
	}

	step := e.Step
	t.output(ctx, Event{
		Type:    EventDeliver,
		Channel: e.Channel,
		Step:    &step,
		Diff:    domain.Diff(prev, t.current),
		Session: t.current.Clone(),
	})

	if err := t.runner.save(t.current.Clone()); err != nil {
		t.runner.Logger.Error("failed to save session", "session_id", t.runner.SessionID, "error", err)
	}
}

func (t *tracker) finish(final *domain.Session) {
	t.mu.Lock()
	defer t.mu.Unlock()
	diff := domain.Diff(t.current, final)
	t.current = final.Clone()
	t.output(context.Background(), Event{Type: EventFinished, Diff: diff, Session: final.Clone()})
}

func (t *tracker) output(ctx context.Context, event Event) {
	if err := t.runner.Handler.Output(ctx, event); err != nil {
		t.runner.Logger.Error("output error", "type", event.Type, "error", err)
	}
}
