package domain

// Policy names a permissive rule that turns an anomaly into data instead of a failure.
type Policy string

const (
	// PolicyEmptyGrid: negative rows or non-positive columns yield the empty grid.
	PolicyEmptyGrid Policy = "empty_grid"

	// PolicySkipOutOfGrid: a target outside the grid is reported and its leg skipped.
	// Planning continues from the last visited point.
	PolicySkipOutOfGrid Policy = "skip_out_of_grid"

	// PolicyDefaultCoordinate: a missing or unparsable coordinate becomes DefaultCoordinate.
	PolicyDefaultCoordinate Policy = "default_coordinate"
)

// DefaultCoordinate is the value used by PolicyDefaultCoordinate.
const DefaultCoordinate = 0

// DefaultInput is the sample input shown when nothing else is provided.
const DefaultInput = "5x5 (1, 3) (2, 0) (3, 2)"
