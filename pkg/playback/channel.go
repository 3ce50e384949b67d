package playback

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/courier/pkg/domain"
)

// Channel is a paced FIFO queue with a single delivery worker.
//
// Enqueue never blocks and never drops. The worker takes one item, waits the
// configured delay, hands the item to every listener and only then looks at the
// next item.
type Channel[T any] struct {
	name   string
	delay  time.Duration
	clock  Clock
	logger *slog.Logger

	mu        sync.Mutex
	items     []T
	pending   int           // queued + in flight
	idle      chan struct{} // closed whenever pending == 0
	closed    bool
	listeners []func(T)

	wake    chan struct{}
	ctx     context.Context
	cancel  context.CancelFunc
	stopped chan struct{}
}

// NewChannel starts a channel worker. Call Close to stop it.
func NewChannel[T any](name string, delay time.Duration, clock Clock, logger *slog.Logger) *Channel[T] {
	if clock == nil {
		clock = SystemClock{}
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	idle := make(chan struct{})
	close(idle)

	ctx, cancel := context.WithCancel(context.Background())
	c := &Channel[T]{
		name:    name,
		delay:   delay,
		clock:   clock,
		logger:  logger.With("channel", name),
		idle:    idle,
		wake:    make(chan struct{}, 1),
		ctx:     ctx,
		cancel:  cancel,
		stopped: make(chan struct{}),
	}
	go c.run()
	return c
}

// Subscribe registers a listener. Listeners run on the worker goroutine,
// one delivery at a time, in registration order.
func (c *Channel[T]) Subscribe(fn func(T)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// Enqueue appends v to the queue.
// Returns domain.ErrPipelineClosed after Close.
func (c *Channel[T]) Enqueue(v T) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return domain.ErrPipelineClosed
	}
	c.items = append(c.items, v)
	c.pending++
	if c.pending == 1 {
		c.idle = make(chan struct{})
	}
	c.mu.Unlock()

	select {
	case c.wake <- struct{}{}:
	default:
	}
	return nil
}

// Pending returns the number of queued or in-flight items.
func (c *Channel[T]) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}

// Wait blocks until the channel has drained.
// Returns domain.ErrPipelineClosed if the channel was closed instead.
func (c *Channel[T]) Wait(ctx context.Context) error {
	c.mu.Lock()
	idle := c.idle
	c.mu.Unlock()

	select {
	case <-idle:
	case <-ctx.Done():
		return ctx.Err()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return domain.ErrPipelineClosed
	}
	return nil
}

// Close stops the worker and discards undelivered items.
// A delivery already handed to listeners is allowed to finish.
func (c *Channel[T]) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	dropped := len(c.items)
	c.items = nil
	if c.pending > 0 {
		c.pending = 0
		close(c.idle)
	}
	c.mu.Unlock()

	c.cancel()
	if dropped > 0 {
		c.logger.Debug("channel closed with undelivered items", "dropped", dropped)
	}
}

// Done is closed once the worker goroutine has exited.
func (c *Channel[T]) Done() <-chan struct{} {
	return c.stopped
}

func (c *Channel[T]) run() {
	defer close(c.stopped)

	for {
		item, ok := c.next()
		if !ok {
			return
		}

		if err := c.clock.Sleep(c.ctx, c.delay); err != nil {
			return
		}

		c.deliver(item)
		c.finish()
	}
}

// next blocks until an item is available or the channel is closed.
func (c *Channel[T]) next() (T, bool) {
	for {
		c.mu.Lock()
		if c.closed {
			c.mu.Unlock()
			var zero T
			return zero, false
		}
		if len(c.items) > 0 {
			item := c.items[0]
			var zero T
			c.items[0] = zero
			c.items = c.items[1:]
			c.mu.Unlock()
			return item, true
		}
		c.mu.Unlock()

		select {
		case <-c.wake:
		case <-c.ctx.Done():
			var zero T
			return zero, false
		}
	}
}

func (c *Channel[T]) deliver(item T) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	listeners := make([]func(T), len(c.listeners))
	copy(listeners, c.listeners)
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(item)
	}
	c.logger.Debug("delivered", "item", item)
}

func (c *Channel[T]) finish() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.pending == 0 {
		return
	}
	c.pending--
	if c.pending == 0 {
		close(c.idle)
	}
}
