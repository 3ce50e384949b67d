package runtime

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/courier/internal/testutils"
	"github.com/aretw0/courier/pkg/domain"
	"github.com/aretw0/courier/pkg/playback"
	"github.com/aretw0/courier/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulator_Plan(t *testing.T) {
	sim := NewSimulator()

	route := sim.Plan(context.Background(), Generate(5, 5), testutils.SampleTargets())

	assert.Equal(t, "NNDEENDESSD", route.String())
	assert.Equal(t, 3, route.Drops())
	assert.Empty(t, route.Skipped)
	assert.Empty(t, route.Notices)
	assert.Equal(t, domain.RouteStep{Direction: domain.Drop, Position: domain.P(1, 3)}, route.Steps[len(route.Steps)-1])
}

func TestSimulator_Plan_OutOfGrid(t *testing.T) {
	var notices []domain.Notice
	notifier := ports.NotifierFunc(func(_ context.Context, n domain.Notice) {
		notices = append(notices, n)
	})

	var hooked []domain.Notice
	hooks := domain.LifecycleHooks{
		OnNotice: func(_ context.Context, e *domain.NoticeEvent) {
			hooked = append(hooked, e.Notice)
		},
	}

	sim := NewSimulator(WithNotifier(notifier), WithLifecycleHooks(hooks))

	t.Run("only target outside", func(t *testing.T) {
		notices, hooked = nil, nil
		route := sim.Plan(context.Background(), Generate(2, 2), []domain.Point{domain.P(3, 3)})

		assert.Empty(t, route.Steps, "no events for a skipped leg")
		assert.Equal(t, []domain.Point{domain.P(3, 3)}, route.Skipped)
		require.Len(t, notices, 1)
		assert.Equal(t, domain.PolicySkipOutOfGrid, notices[0].Policy)
		assert.Equal(t, "Out of grid range 3,3", notices[0].Message)
		assert.Equal(t, notices, hooked)
	})

	t.Run("cursor stays on last visited point", func(t *testing.T) {
		notices, hooked = nil, nil
		points := []domain.Point{domain.P(0, 1), domain.P(0, 3), domain.P(2, 2)}
		route := sim.Plan(context.Background(), Generate(3, 3), points)

		assert.Equal(t, "EDENND", route.String())
		assert.Equal(t, domain.P(0, 1), route.Steps[2].Position, "walk resumes from the last valid stop")
		assert.Equal(t, []domain.Point{domain.P(0, 3)}, route.Skipped)
		assert.Len(t, notices, 1)
	})

	t.Run("empty grid skips everything", func(t *testing.T) {
		notices, hooked = nil, nil
		route := sim.Plan(context.Background(), Generate(-1, 3), []domain.Point{domain.P(0, 0), domain.P(1, 1)})

		assert.Empty(t, route.Steps)
		assert.Len(t, route.Skipped, 2)
		assert.Len(t, notices, 2)
	})
}

func TestSimulator_Plan_Hooks(t *testing.T) {
	var planned *domain.PlanEvent
	sim := NewSimulator(
		WithSessionID("s-1"),
		WithLifecycleHooks(domain.LifecycleHooks{
			OnPlan: func(_ context.Context, e *domain.PlanEvent) { planned = e },
		}),
	)

	sim.Plan(context.Background(), Generate(5, 5), testutils.SampleTargets())

	require.NotNil(t, planned)
	assert.Equal(t, "s-1", planned.SessionID)
	assert.Equal(t, domain.EventPlan, planned.Type)
	assert.Equal(t, 11, planned.Steps)
	assert.Len(t, planned.Stops, 3)
}

// recorder collects deliveries from the OnDeliver hook.
type recorder struct {
	mu        sync.Mutex
	events    []*domain.StepEvent
	delivered chan struct{}
}

func newRecorder() *recorder {
	return &recorder{delivered: make(chan struct{}, 64)}
}

func (r *recorder) hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnDeliver: func(_ context.Context, e *domain.StepEvent) {
			r.mu.Lock()
			r.events = append(r.events, e)
			r.mu.Unlock()
			r.delivered <- struct{}{}
		},
	}
}

func (r *recorder) await(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		testutils.Receive(t, r.delivered)
	}
}

func TestSimulator_Simulate(t *testing.T) {
	clock := testutils.NewManualClock()
	rec := newRecorder()
	sim := NewSimulator(
		WithLifecycleHooks(rec.hooks()),
		WithPipelineOptions(playback.WithClock(clock), playback.WithDelay(time.Second)),
	)
	defer sim.Close()

	route, err := sim.Simulate(context.Background(), Generate(2, 2), []domain.Point{domain.P(1, 1)})
	require.NoError(t, err)
	require.Equal(t, "END", route.String())

	// Nothing is visible before the first delivery.
	assert.Equal(t, domain.Origin, sim.Position())
	assert.Empty(t, sim.Result())

	clock.WaitForSleepers(t, 2)
	clock.Advance(time.Second)
	rec.await(t, 2)
	assert.Equal(t, "E", sim.ResultString())
	assert.Equal(t, domain.P(0, 0), sim.Position())

	clock.WaitForSleepers(t, 2)
	clock.Advance(time.Second)
	rec.await(t, 2)
	assert.Equal(t, "EN", sim.ResultString())
	assert.True(t, sim.AtPosition(domain.P(0, 1)))

	clock.WaitForSleepers(t, 2)
	clock.Advance(time.Second)
	rec.await(t, 2)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, sim.Wait(ctx))

	assert.Equal(t, []domain.Direction{domain.Right, domain.Top, domain.Drop}, sim.Result())
	assert.True(t, sim.AtPosition(domain.P(1, 1)))
	assert.Len(t, rec.events, 6)

	var directions []domain.RouteStep
	for _, e := range rec.events {
		if e.Channel == domain.ChannelDirection {
			directions = append(directions, e.Step)
		}
	}
	assert.Equal(t, route.Steps, directions, "direction deliveries carry the position they were taken at")
}

func TestSimulator_Simulate_OutOfGridEmitsNothing(t *testing.T) {
	clock := testutils.NewManualClock()
	var emitted int
	sim := NewSimulator(
		WithLifecycleHooks(domain.LifecycleHooks{
			OnEmit: func(context.Context, *domain.StepEvent) { emitted++ },
		}),
		WithPipelineOptions(playback.WithClock(clock)),
	)
	defer sim.Close()

	route, err := sim.Simulate(context.Background(), Generate(2, 2), []domain.Point{domain.P(3, 3)})
	require.NoError(t, err)

	assert.Empty(t, route.Steps)
	assert.Zero(t, emitted)
	assert.NoError(t, sim.Wait(context.Background()), "nothing queued, already drained")
	assert.Empty(t, sim.Result())
}

func TestSimulator_Simulate_CancelAndRestart(t *testing.T) {
	clock := testutils.NewManualClock()
	rec := newRecorder()
	sim := NewSimulator(
		WithLifecycleHooks(rec.hooks()),
		WithPipelineOptions(playback.WithClock(clock)),
	)
	defer sim.Close()

	_, err := sim.Simulate(context.Background(), Generate(5, 5), testutils.SampleTargets())
	require.NoError(t, err)

	clock.WaitForSleepers(t, 2)
	clock.Advance(playback.DefaultDelay)
	rec.await(t, 2)
	assert.Equal(t, "N", sim.ResultString())

	// Restart before the first run drained.
	_, err = sim.Simulate(context.Background(), Generate(2, 2), []domain.Point{domain.P(0, 1)})
	require.NoError(t, err)
	assert.Empty(t, sim.Result(), "state is reset on restart")
	assert.Equal(t, domain.Origin, sim.Position())

	// Only the new run's workers are sleeping.
	clock.WaitForSleepers(t, 2)
	clock.Advance(playback.DefaultDelay)
	rec.await(t, 2)
	clock.WaitForSleepers(t, 2)
	clock.Advance(playback.DefaultDelay)
	rec.await(t, 2)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, sim.Wait(ctx))
	assert.Equal(t, "ED", sim.ResultString())
	assert.True(t, sim.AtPosition(domain.P(0, 1)))
}

func TestSimulator_Close(t *testing.T) {
	clock := testutils.NewManualClock()
	sim := NewSimulator(WithPipelineOptions(playback.WithClock(clock)))

	_, err := sim.Simulate(context.Background(), Generate(5, 5), testutils.SampleTargets())
	require.NoError(t, err)
	clock.WaitForSleepers(t, 2)

	sim.Close()
	assert.ErrorIs(t, sim.Wait(context.Background()), domain.ErrPipelineClosed)
	assert.Empty(t, sim.Result())

	state := sim.Snapshot()
	assert.Equal(t, domain.Origin, state.Current)
}
