package runtime

import "github.com/aretw0/courier/pkg/domain"

// Order sorts points into a greedy nearest-neighbor visiting sequence.
//
// Starting from the origin, each iteration picks the closest point (Manhattan)
// that has not been selected yet and moves the cursor there. A point counts as
// selected once a point with the same value was chosen, so duplicates are
// visited once. Ties keep the first candidate in scan order.
//
// The input slice is never modified.
func Order(points []domain.Point) []domain.Stop {
	result := make([]domain.Stop, 0, len(points))
	cursor := domain.Origin

	for i := 0; i < len(points); i++ {
		var (
			chosen domain.Point
			best   int
			found  bool
		)

		for _, p := range points {
			if selected(result, p) {
				continue
			}

			d := p.Manhattan(cursor)
			if !found || d < best {
				chosen, best, found = p, d, true
			}
		}

		// Only duplicates of selected values remain.
		if !found {
			break
		}

		result = append(result, domain.Stop{Step: best, Value: chosen})
		cursor = chosen
	}

	return result
}

func selected(stops []domain.Stop, p domain.Point) bool {
	for _, s := range stops {
		if s.Value.Equal(p) {
			return true
		}
	}
	return false
}
