package http

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/aretw0/courier/pkg/domain"
)

// run is one background simulation owned by the server.
type run struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// startRun cancels any run already playing sessionID and starts a new one.
// It returns once the route was planned, or with the parse error.
func (s *Server) startRun(sessionID, input string) (*domain.PlanEvent, error) {
	s.mu.Lock()
	if prev, ok := s.runs[sessionID]; ok {
		s.mu.Unlock()
		prev.cancel()
		<-prev.done
		s.mu.Lock()
	}
	ctx, cancel := context.WithCancel(context.Background())
	r := &run{cancel: cancel, done: make(chan struct{})}
	s.runs[sessionID] = r
	s.mu.Unlock()

	t := &runTracker{server: s, current: domain.NewSession(sessionID), planned: make(chan *domain.PlanEvent, 1)}
	t.current.Input = input
	errCh := make(chan error, 1)

	go func() {
		defer close(r.done)
		defer cancel()
		defer s.finishRun(sessionID, r)

		final, err := s.engine.Simulate(ctx, sessionID, input, t.hooks())
		if final == nil {
			errCh <- err
			return
		}
		if err != nil && !errors.Is(err, context.Canceled) {
			s.logger.Error("simulation failed", "session_id", sessionID, "error", err)
		}
		t.finish(final)
	}()

	select {
	case plan := <-t.planned:
		return plan, nil
	case err := <-errCh:
		return nil, err
	}
}

func (s *Server) finishRun(sessionID string, r *run) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.runs[sessionID] == r {
		delete(s.runs, sessionID)
	}
}

// stopRun cancels sessionID's run, if any, and waits for it to end.
func (s *Server) stopRun(sessionID string) {
	s.mu.Lock()
	r, ok := s.runs[sessionID]
	s.mu.Unlock()
	if ok {
		r.cancel()
		<-r.done
	}
}

// Shutdown cancels every background run.
func (s *Server) Shutdown() {
	s.mu.Lock()
	ids := make([]string, 0, len(s.runs))
	for id := range s.runs {
		ids = append(ids, id)
	}
	s.mu.Unlock()

	for _, id := range ids {
		s.stopRun(id)
	}
}

// runTracker keeps the session of a background run, persists it and
// broadcasts its diffs.
type runTracker struct {
	server  *Server
	planned chan *domain.PlanEvent

	mu      sync.Mutex
	current *domain.Session
}

func (t *runTracker) hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnPlan: func(_ context.Context, e *domain.PlanEvent) {
			t.mu.Lock()
			t.current.Rows, t.current.Cols = e.Rows, e.Cols
			t.current.Route = e.Route
			t.current.Points = e.Targets()
			t.current.Status = domain.StatusRunning
			t.commit(nil)
			t.mu.Unlock()
			t.planned <- e
		},
		OnDeliver: func(_ context.Context, e *domain.StepEvent) {
			t.mu.Lock()
			defer t.mu.Unlock()
			prev := t.current.Clone()
			switch e.Channel {
			case domain.ChannelDirection:
				t.current.Result += e.Step.Direction.Code()
			case domain.ChannelPosition:
				t.current.Current = e.Step.Position
			}
			t.commit(prev)
		},
	}
}

func (t *runTracker) finish(final *domain.Session) {
	t.mu.Lock()
	defer t.mu.Unlock()
	prev := t.current
	t.current = final.Clone()
	t.commit(prev)
}

// commit saves the current session and broadcasts its diff against prev.
func (t *runTracker) commit(prev *domain.Session) {
	s := t.server
	snapshot := t.current.Clone()

	if s.sessions != nil {
		if err := s.sessions.Save(context.Background(), snapshot.ID, snapshot); err != nil {
			s.logger.Error("failed to save session", "session_id", snapshot.ID, "error", err)
		}
	}

	diff := domain.Diff(prev, snapshot)
	if diff == nil {
		return
	}
	if bytes, err := json.Marshal(diff); err == nil {
		s.streams.Broadcast(snapshot.ID, string(bytes))
	}
}
