package compiler

import (
	"testing"

	"github.com/aretw0/courier/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParser_Parse(t *testing.T) {
	p := NewParser()

	tests := []struct {
		name   string
		input  string
		rows   int
		cols   int
		points []domain.Point
	}{
		{
			name:   "default input",
			input:  domain.DefaultInput,
			rows:   5,
			cols:   5,
			points: []domain.Point{domain.P(1, 3), domain.P(2, 0), domain.P(3, 2)},
		},
		{
			name:   "grid only",
			input:  "2x2",
			rows:   2,
			cols:   2,
			points: []domain.Point{},
		},
		{
			name:   "three digit dimensions",
			input:  "100x250 (99, 249)",
			rows:   100,
			cols:   250,
			points: []domain.Point{domain.P(99, 249)},
		},
		{
			name:   "compact groups",
			input:  "3x4 (1,2) (0,3)",
			rows:   3,
			cols:   4,
			points: []domain.Point{domain.P(1, 2), domain.P(0, 3)},
		},
		{
			name:   "surrounding whitespace",
			input:  "  4x4   (2, 2)  ",
			rows:   4,
			cols:   4,
			points: []domain.Point{domain.P(2, 2)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, err := p.Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.rows, in.Rows)
			assert.Equal(t, tt.cols, in.Cols)
			assert.Equal(t, tt.points, in.Points)
			assert.Empty(t, in.Notices)
		})
	}
}

func TestParser_Parse_Invalid(t *testing.T) {
	p := NewParser()

	for _, input := range []string{
		"",
		"   ",
		"2x",
		"x2",
		"0x5",
		"5x0",
		"1000x2",
		"05x5",
		"5 x 5",
		"5x5 (1, 2",
		"5x5 1, 2",
		"5x5 (a, b)",
	} {
		t.Run(input, func(t *testing.T) {
			_, err := p.Parse(input)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestParser_Parse_DefaultCoordinatePolicy(t *testing.T) {
	in, err := NewParser().Parse("3x3 (,2) (1,) (,)")
	require.NoError(t, err)

	assert.Equal(t, []domain.Point{domain.P(0, 2), domain.P(1, 0), domain.P(0, 0)}, in.Points)
	require.Len(t, in.Notices, 3)
	for _, n := range in.Notices {
		assert.Equal(t, domain.PolicyDefaultCoordinate, n.Policy)
	}
}

func TestParsePoints(t *testing.T) {
	t.Run("best effort", func(t *testing.T) {
		points, notices := ParsePoints("(1, 3)(2,0) ( 4 , x )")
		assert.Equal(t, []domain.Point{domain.P(1, 3), domain.P(2, 0), domain.P(4, 0)}, points)
		require.Len(t, notices, 1)
		assert.Equal(t, domain.P(4, 0), notices[0].Point)
	})

	t.Run("missing second component", func(t *testing.T) {
		points, notices := ParsePoints("(7)")
		assert.Equal(t, []domain.Point{domain.P(7, 0)}, points)
		assert.Len(t, notices, 1)
	})

	t.Run("negative values", func(t *testing.T) {
		points, notices := ParsePoints("(-1, -2)")
		assert.Equal(t, []domain.Point{domain.P(-1, -2)}, points)
		assert.Empty(t, notices)
	})

	t.Run("empty", func(t *testing.T) {
		points, notices := ParsePoints("")
		assert.Empty(t, points)
		assert.Empty(t, notices)
	})
}
