package compiler

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/aretw0/courier/pkg/domain"
)

// inputPattern accepts "<rows>x<cols>" followed by any number of point groups.
// Dimensions have 1 to 3 digits with a non-zero leading digit. The content of
// a group is checked loosely here and resolved by ParsePoints.
var inputPattern = regexp.MustCompile(`^([1-9]\d{0,2})x([1-9]\d{0,2})((?:\s+\(\s*-?\d*\s*(?:,\s*-?\d*\s*)?\))*)\s*$`)

// Input is a parsed simulation request.
type Input struct {
	Raw     string          `json:"raw"`
	Rows    int             `json:"rows"`
	Cols    int             `json:"cols"`
	Points  []domain.Point  `json:"points"`
	Notices []domain.Notice `json:"notices,omitempty"`
}

// Parser converts the textual input into grid dimensions and target points.
type Parser struct{}

// NewParser creates a new parser instance.
func NewParser() *Parser {
	return &Parser{}
}

// Parse validates input against the grammar and extracts its parts.
// Malformed input returns an error wrapping domain.ErrInvalidInput.
// Missing coordinates inside a group default to zero and are reported as
// domain.PolicyDefaultCoordinate notices.
func (p *Parser) Parse(input string) (*Input, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return nil, fmt.Errorf("%w: empty input", domain.ErrInvalidInput)
	}

	m := inputPattern.FindStringSubmatch(raw)
	if m == nil {
		return nil, fmt.Errorf("%w: %q does not match <rows>x<cols> [(x, y)]*", domain.ErrInvalidInput, raw)
	}

	rows, err := strconv.Atoi(m[1])
	if err != nil {
		return nil, fmt.Errorf("%w: rows: %v", domain.ErrInvalidInput, err)
	}
	cols, err := strconv.Atoi(m[2])
	if err != nil {
		return nil, fmt.Errorf("%w: cols: %v", domain.ErrInvalidInput, err)
	}

	points, notices := ParsePoints(m[3])
	return &Input{
		Raw:     raw,
		Rows:    rows,
		Cols:    cols,
		Points:  points,
		Notices: notices,
	}, nil
}

// ParsePoints splits "(x, y) (x, y)..." into points on a best-effort basis.
// Whitespace and closing parentheses are ignored, and a component that is
// missing or not an integer becomes domain.DefaultCoordinate.
func ParsePoints(text string) ([]domain.Point, []domain.Notice) {
	cleaned := strings.Map(func(r rune) rune {
		if r == ')' || r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			return -1
		}
		return r
	}, text)

	points := []domain.Point{}
	var notices []domain.Notice
	for _, group := range strings.Split(cleaned, "(") {
		if group == "" {
			continue
		}

		first, second, _ := strings.Cut(group, ",")
		x, okX := coordinate(first)
		y, okY := coordinate(second)
		pt := domain.P(x, y)
		points = append(points, pt)

		if !okX || !okY {
			notices = append(notices, domain.Notice{
				Policy:  domain.PolicyDefaultCoordinate,
				Point:   pt,
				Message: fmt.Sprintf("Missing coordinate in (%s) defaulted to %d", group, domain.DefaultCoordinate),
			})
		}
	}
	return points, notices
}

func coordinate(s string) (int, bool) {
	if s == "" {
		return domain.DefaultCoordinate, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return domain.DefaultCoordinate, false
	}
	return n, true
}
