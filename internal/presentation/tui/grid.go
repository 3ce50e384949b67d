package tui

import (
	"errors"
	"strings"

	"github.com/aretw0/courier/pkg/domain"
	"github.com/muesli/termenv"
)

// Grid rendering limits. Larger grids are not drawn.
const (
	MaxGridRows = 40
	MaxGridCols = 80
)

// ErrGridNotDrawable is returned for empty grids and grids over the limits.
var ErrGridNotDrawable = errors.New("grid cannot be drawn")

// Cell glyphs.
const (
	glyphEmpty   = "."
	glyphTarget  = "x"
	glyphCourier = "@"
)

// NewGridRenderer returns a renderer drawing a session's grid with the
// courier (@) and its targets (x). The first coordinate grows upwards, the
// second to the right. Colors follow profile; termenv.Ascii disables them.
func NewGridRenderer(profile termenv.Profile) func(*domain.Session) (string, error) {
	return func(s *domain.Session) (string, error) {
		return RenderGrid(s, profile)
	}
}

// RenderGrid draws s as text.
func RenderGrid(s *domain.Session, profile termenv.Profile) (string, error) {
	if s.Rows <= 0 || s.Cols <= 0 || s.Rows > MaxGridRows || s.Cols > MaxGridCols {
		return "", ErrGridNotDrawable
	}

	targets := domain.NewPointSet(s.Points...)
	courier := profile.String(glyphCourier).Foreground(profile.Color("#fbbf24")).Bold().String()
	target := profile.String(glyphTarget).Foreground(profile.Color("#f472b6")).String()
	empty := profile.String(glyphEmpty).Faint().String()

	var sb strings.Builder
	for x := s.Rows - 1; x >= 0; x-- {
		for y := 0; y < s.Cols; y++ {
			if y > 0 {
				sb.WriteByte(' ')
			}
			p := domain.P(x, y)
			switch {
			case s.Current.Equal(p):
				sb.WriteString(courier)
			case targets.Includes(p):
				sb.WriteString(target)
			default:
				sb.WriteString(empty)
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String(), nil
}
