package playback

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/courier/pkg/domain"
)

// DefaultDelay is the pause before every delivery on a channel.
const DefaultDelay = time.Second

// Pipeline splits route steps into a direction channel and a position channel.
// The direction channel carries the whole step, so a delivered direction
// still knows where it was taken.
type Pipeline struct {
	directions *Channel[domain.RouteStep]
	positions  *Channel[domain.Point]
	done       chan struct{}

	delay  time.Duration
	clock  Clock
	logger *slog.Logger
}

// Option defines a functional option for configuring the Pipeline.
type Option func(*Pipeline)

// WithDelay sets the per-delivery delay. Negative values are treated as zero.
func WithDelay(d time.Duration) Option {
	return func(p *Pipeline) {
		if d < 0 {
			d = 0
		}
		p.delay = d
	}
}

// WithClock injects the clock used by both channels.
func WithClock(c Clock) Option {
	return func(p *Pipeline) {
		p.clock = c
	}
}

// WithLogger sets a structured logger for delivery tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// New creates a Pipeline and starts both channel workers.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		delay:  DefaultDelay,
		clock:  SystemClock{},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(p)
	}

	p.directions = NewChannel[domain.RouteStep](domain.ChannelDirection, p.delay, p.clock, p.logger)
	p.positions = NewChannel[domain.Point](domain.ChannelPosition, p.delay, p.clock, p.logger)

	p.done = make(chan struct{})
	go func() {
		<-p.directions.Done()
		<-p.positions.Done()
		close(p.done)
	}()
	return p
}

// Delay returns the configured per-delivery delay.
func (p *Pipeline) Delay() time.Duration {
	return p.delay
}

// OnDirection subscribes to delivered directions. The step passed to fn is
// the emitted one, position included.
func (p *Pipeline) OnDirection(fn func(domain.RouteStep)) {
	p.directions.Subscribe(fn)
}

// OnPosition subscribes to delivered positions.
func (p *Pipeline) OnPosition(fn func(domain.Point)) {
	p.positions.Subscribe(fn)
}

// Emit enqueues the step's direction and position on their channels.
func (p *Pipeline) Emit(step domain.RouteStep) error {
	if err := p.directions.Enqueue(step); err != nil {
		return err
	}
	return p.positions.Enqueue(step.Position)
}

// Pending returns the number of undelivered directions and positions.
func (p *Pipeline) Pending() (directions, positions int) {
	return p.directions.Pending(), p.positions.Pending()
}

// Wait blocks until both channels have drained.
func (p *Pipeline) Wait(ctx context.Context) error {
	return errors.Join(p.directions.Wait(ctx), p.positions.Wait(ctx))
}

// Close stops both channels, discarding undelivered events.
func (p *Pipeline) Close() {
	p.directions.Close()
	p.positions.Close()
}

// Done is closed once both channel workers have exited.
func (p *Pipeline) Done() <-chan struct{} {
	return p.done
}
