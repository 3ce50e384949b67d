package runtime

import "github.com/aretw0/courier/pkg/domain"

// ValidDimensions reports whether rows and cols describe a non-empty-able grid.
// Anything else falls under domain.PolicyEmptyGrid.
func ValidDimensions(rows, cols int) bool {
	return rows >= 0 && cols >= 1
}

// Generate builds a rows x cols grid of (row, col) cells in row-major order.
// Invalid dimensions yield the empty grid rather than an error.
func Generate(rows, cols int) domain.Grid {
	if !ValidDimensions(rows, cols) {
		return domain.Grid{}
	}

	cells := make([][]domain.Point, rows)
	for x := 0; x < rows; x++ {
		row := make([]domain.Point, cols)
		for y := 0; y < cols; y++ {
			row[y] = domain.P(x, y)
		}
		cells[x] = row
	}

	return domain.Grid{Rows: rows, Cols: cols, Cells: cells}
}

// ContainsPoint reports whether some cell of grid equals p.
// The empty grid contains nothing.
func ContainsPoint(grid domain.Grid, p domain.Point) bool {
	for _, row := range grid.Cells {
		for _, cell := range row {
			if cell.Equal(p) {
				return true
			}
		}
	}
	return false
}
