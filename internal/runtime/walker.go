package runtime

import "github.com/aretw0/courier/pkg/domain"

// Walk expands one hop into unit moves, calling emit for every route step.
//
// Each of the hops iterations resolves the second coordinate first (Right or
// Left) and only then the first one (Top or Bottom). A move is emitted with the
// position before the move. Whenever the cursor sits on the target at the end
// of an iteration a Drop is emitted at the target, so iterations left over
// after arrival emit Drop again. hops <= 0 emits nothing.
func Walk(from, to domain.Point, hops int, emit func(domain.RouteStep)) {
	cur := from

	for i := 0; i < hops; i++ {
		switch {
		case to.Y != cur.Y:
			if to.Y > cur.Y {
				emit(domain.RouteStep{Direction: domain.Right, Position: cur})
				cur.Y++
			} else {
				emit(domain.RouteStep{Direction: domain.Left, Position: cur})
				cur.Y--
			}
		case to.X != cur.X:
			if to.X > cur.X {
				emit(domain.RouteStep{Direction: domain.Top, Position: cur})
				cur.X++
			} else {
				emit(domain.RouteStep{Direction: domain.Bottom, Position: cur})
				cur.X--
			}
		}

		if cur.Equal(to) {
			emit(domain.RouteStep{Direction: domain.Drop, Position: cur})
		}
	}
}

// WalkSteps is Walk collecting the steps into a slice.
func WalkSteps(from, to domain.Point, hops int) []domain.RouteStep {
	var steps []domain.RouteStep
	Walk(from, to, hops, func(s domain.RouteStep) {
		steps = append(steps, s)
	})
	return steps
}
