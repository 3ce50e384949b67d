/*
Package domain contains the core domain models for the courier route engine.

It defines the fundamental entities of a delivery simulation, such as grid
positions, movement directions and the ordered stops of a route. This package
is kept pure and free of external dependencies like I/O or persistence,
following Hexagonal Architecture principles.

# Key Entities

  - Point: An integer pair. Used both for grid cells and for delivery targets.
  - Grid: A dense, row-major collection of cells.
  - Direction: A cardinal move (N, E, S, W) or the arrival marker (D).
  - RouteStep: A Direction paired with the position where it was taken.
  - Stop: One greedy hop of the route (distance from the previous stop + target).
  - Route: The aggregated plan produced for a grid and a set of targets.
  - Session: The persisted record of a simulation.
*/
package domain
