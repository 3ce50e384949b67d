/*
Package playback turns route steps into two independently paced event streams.

Every RouteStep handed to a Pipeline is split into a direction event, which
keeps the whole step, and a position event. Each stream is a Channel: an unbounded FIFO queue drained by a
single worker that waits a fixed delay before every delivery. The next item is
not dequeued until the current delivery has completed, so deliveries on one
channel never overlap and never reorder. The two channels do not wait for each
other.

Time is injected through the Clock interface so tests can drive playback
without real delays.

# Usage

	p := playback.New(playback.WithDelay(500 * time.Millisecond))
	defer p.Close()

	p.OnDirection(func(s domain.RouteStep) { fmt.Print(s.Direction.Code()) })
	p.OnPosition(func(pt domain.Point) { fmt.Println(" at", pt) })

	for _, step := range route.Steps {
		_ = p.Emit(step)
	}
	_ = p.Wait(ctx)
*/
package playback
