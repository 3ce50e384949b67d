package runtime

import (
	"testing"

	"github.com/aretw0/courier/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	sizes := []struct{ rows, cols int }{
		{0, 1}, {1, 1}, {2, 3}, {5, 5}, {7, 2},
	}

	for _, sz := range sizes {
		grid := Generate(sz.rows, sz.cols)
		require.Equal(t, sz.rows*sz.cols, grid.Len(), "%dx%d", sz.rows, sz.cols)

		seen := make(map[domain.Point]bool)
		var flat []domain.Point
		for _, row := range grid.Cells {
			flat = append(flat, row...)
		}
		for i, p := range flat {
			assert.False(t, seen[p], "duplicate cell %s", p)
			seen[p] = true
			// row-major enumeration
			assert.Equal(t, domain.P(i/sz.cols, i%sz.cols), p)
		}
	}
}

func TestGenerate_EmptyGridPolicy(t *testing.T) {
	for _, sz := range []struct{ rows, cols int }{{-1, 3}, {3, 0}, {2, -4}, {-1, -1}} {
		grid := Generate(sz.rows, sz.cols)
		assert.True(t, grid.IsEmpty(), "%dx%d should be empty", sz.rows, sz.cols)
		assert.False(t, ValidDimensions(sz.rows, sz.cols))
	}
}

func TestContainsPoint(t *testing.T) {
	grid := Generate(2, 3)

	assert.True(t, ContainsPoint(grid, domain.P(0, 0)))
	assert.True(t, ContainsPoint(grid, domain.P(1, 2)))
	assert.False(t, ContainsPoint(grid, domain.P(2, 0)))
	assert.False(t, ContainsPoint(grid, domain.P(0, 3)))
	assert.False(t, ContainsPoint(grid, domain.P(-1, 0)))

	assert.False(t, ContainsPoint(Generate(-1, 5), domain.P(0, 0)), "empty grid contains nothing")
}
