package domain

import "fmt"

// Stop is one greedy hop of a route: the Manhattan distance from the
// previously chosen point (or the origin) and the chosen point itself.
type Stop struct {
	Step  int   `json:"step"`
	Value Point `json:"value"`
}

// Notice is an anomaly reported while planning. Notices never abort a run.
type Notice struct {
	Policy  Policy `json:"policy"`
	Point   Point  `json:"point"`
	Message string `json:"message"`
}

// NewOutOfGridNotice builds the notice reported for a target outside the grid.
func NewOutOfGridNotice(p Point) Notice {
	return Notice{
		Policy:  PolicySkipOutOfGrid,
		Point:   p,
		Message: fmt.Sprintf("Out of grid range %d,%d", p.X, p.Y),
	}
}

// Route is the aggregated plan for a grid and a set of targets.
type Route struct {
	Rows    int         `json:"rows"`
	Cols    int         `json:"cols"`
	Stops   []Stop      `json:"stops"`
	Steps   []RouteStep `json:"steps"`
	Skipped []Point     `json:"skipped,omitempty"`
	Notices []Notice    `json:"notices,omitempty"`
}

// Directions returns the directions of every step in order.
func (r *Route) Directions() []Direction {
	dirs := make([]Direction, len(r.Steps))
	for i, s := range r.Steps {
		dirs[i] = s.Direction
	}
	return dirs
}

// String concatenates the direction codes of the route.
func (r *Route) String() string {
	return JoinDirections(r.Directions())
}

// Drops counts the arrival markers in the route.
func (r *Route) Drops() int {
	n := 0
	for _, s := range r.Steps {
		if s.Direction == Drop {
			n++
		}
	}
	return n
}
