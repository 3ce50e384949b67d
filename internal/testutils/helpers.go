package testutils

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/courier/pkg/domain"
	"github.com/stretchr/testify/require"
)

// ManualClock is a playback.Clock whose time only moves when Advance is called.
// Sleepers block until the clock reaches their deadline.
type ManualClock struct {
	mu       sync.Mutex
	now      time.Duration
	sleepers []*sleeper
}

type sleeper struct {
	until time.Duration
	ch    chan struct{}
}

// NewManualClock returns a clock positioned at zero.
func NewManualClock() *ManualClock {
	return &ManualClock{}
}

// Sleep implements playback.Clock.
func (c *ManualClock) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	c.mu.Lock()
	s := &sleeper{until: c.now + d, ch: make(chan struct{})}
	c.sleepers = append(c.sleepers, s)
	c.mu.Unlock()

	select {
	case <-s.ch:
		return nil
	case <-ctx.Done():
		c.remove(s)
		return ctx.Err()
	}
}

// Advance moves the clock forward and wakes every sleeper whose deadline passed.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now += d
	remaining := c.sleepers[:0]
	for _, s := range c.sleepers {
		if s.until <= c.now {
			close(s.ch)
			continue
		}
		remaining = append(remaining, s)
	}
	c.sleepers = remaining
}

// Now returns the elapsed virtual time.
func (c *ManualClock) Now() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Sleepers returns the number of goroutines currently blocked in Sleep.
func (c *ManualClock) Sleepers() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sleepers)
}

// WaitForSleepers fails the test if n sleepers are not blocked within a second.
func (c *ManualClock) WaitForSleepers(t *testing.T, n int) {
	t.Helper()
	require.Eventually(t, func() bool {
		return c.Sleepers() == n
	}, time.Second, time.Millisecond, "expected %d sleepers", n)
}

func (c *ManualClock) remove(target *sleeper) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, s := range c.sleepers {
		if s == target {
			c.sleepers = append(c.sleepers[:i], c.sleepers[i+1:]...)
			return
		}
	}
}

// Receive reads one value from ch or fails the test after a second.
func Receive[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for value")
	}
	var zero T
	return zero
}

// SampleTargets is the default sample input's target list.
func SampleTargets() []domain.Point {
	return []domain.Point{domain.P(1, 3), domain.P(2, 0), domain.P(3, 2)}
}
