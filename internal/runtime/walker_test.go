package runtime

import (
	"testing"

	"github.com/aretw0/courier/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestWalk(t *testing.T) {
	tests := []struct {
		name     string
		from, to domain.Point
		hops     int
		want     []domain.RouteStep
	}{
		{
			name: "second axis first",
			from: domain.P(0, 0), to: domain.P(1, 2), hops: 3,
			want: []domain.RouteStep{
				{Direction: domain.Right, Position: domain.P(0, 0)},
				{Direction: domain.Right, Position: domain.P(0, 1)},
				{Direction: domain.Top, Position: domain.P(0, 2)},
				{Direction: domain.Drop, Position: domain.P(1, 2)},
			},
		},
		{
			name: "decrementing with excess hop",
			from: domain.P(2, 2), to: domain.P(1, 1), hops: 3,
			want: []domain.RouteStep{
				{Direction: domain.Left, Position: domain.P(2, 2)},
				{Direction: domain.Bottom, Position: domain.P(2, 1)},
				{Direction: domain.Drop, Position: domain.P(1, 1)},
				{Direction: domain.Drop, Position: domain.P(1, 1)},
			},
		},
		{
			name: "zero hops",
			from: domain.P(0, 0), to: domain.P(0, 0), hops: 0,
			want: nil,
		},
		{
			name: "negative hops",
			from: domain.P(0, 0), to: domain.P(1, 0), hops: -2,
			want: nil,
		},
		{
			name: "too few hops never arrive",
			from: domain.P(0, 0), to: domain.P(2, 2), hops: 2,
			want: []domain.RouteStep{
				{Direction: domain.Right, Position: domain.P(0, 0)},
				{Direction: domain.Right, Position: domain.P(0, 1)},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WalkSteps(tt.from, tt.to, tt.hops))
		})
	}
}

func TestWalk_EventCounts(t *testing.T) {
	assert.Len(t, WalkSteps(domain.P(0, 0), domain.P(1, 2), 3), 4)

	steps := WalkSteps(domain.P(2, 2), domain.P(1, 1), 3)
	assert.Len(t, steps, 4)
	for _, s := range steps {
		assert.Contains(t, []domain.Direction{domain.Bottom, domain.Left, domain.Drop}, s.Direction)
	}
}
