package domain

// Direction is a unit move on the grid or the arrival marker.
// The underlying value is the single-character code used in route strings.
type Direction string

const (
	// Top increments the first coordinate.
	Top Direction = "N"
	// Right increments the second coordinate.
	Right Direction = "E"
	// Bottom decrements the first coordinate.
	Bottom Direction = "S"
	// Left decrements the second coordinate.
	Left Direction = "W"
	// Drop signals arrival at a target.
	Drop Direction = "D"
)

// Code returns the single-character code (N, E, S, W, D).
func (d Direction) Code() string {
	return string(d)
}

// Name returns the symbolic name of the direction.
func (d Direction) Name() string {
	switch d {
	case Top:
		return "TOP"
	case Right:
		return "RIGHT"
	case Bottom:
		return "BOTTOM"
	case Left:
		return "LEFT"
	case Drop:
		return "DROP"
	default:
		return "UNKNOWN"
	}
}

// IsValid returns true for the five known directions.
func (d Direction) IsValid() bool {
	switch d {
	case Top, Right, Bottom, Left, Drop:
		return true
	}
	return false
}

// RouteStep pairs a Direction with the position at which it was taken.
// For moves this is the position before the move; for Drop it is the
// arrival position. Position-channel deliveries carry no direction.
type RouteStep struct {
	Direction Direction `json:"direction,omitempty"`
	Position  Point     `json:"position"`
}

// JoinDirections concatenates direction codes into a route string.
func JoinDirections(dirs []Direction) string {
	buf := make([]byte, 0, len(dirs))
	for _, d := range dirs {
		buf = append(buf, string(d)...)
	}
	return string(buf)
}
