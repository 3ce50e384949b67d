/*
Package courier plans and simulates a delivery route across a rectangular grid.

Given a grid size and a list of target points, the engine orders the targets
with a greedy nearest-neighbour heuristic (Manhattan distance, starting at the
origin), expands every hop into unit moves and plays the moves back as two
paced event streams: the direction log (N, E, S, W and D for a drop) and the
courier position.

# Input

The textual input is "<rows>x<cols>" followed by any number of "(x, y)"
groups, for example:

	5x5 (1, 3) (2, 0) (3, 2)

A coordinate that is missing inside a group defaults to zero. Targets outside
the grid are reported as notices and their leg is skipped.

# Usage

	eng := courier.New(courier.WithDelay(200 * time.Millisecond))

	route, err := eng.Plan(ctx, "5x5 (1, 3) (2, 0) (3, 2)")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(route) // NNDEENDESSD

	run, err := eng.Start(ctx, "demo", "5x5 (1, 3) (2, 0) (3, 2)", domain.LifecycleHooks{})
	if err != nil {
		log.Fatal(err)
	}
	defer run.Close()
	_ = run.Wait(ctx)
	fmt.Println(run.Result(), run.Position())

Starting another playback on the same Run is not possible; each Start owns its
own pipeline, and closing a Run drops whatever was not delivered yet.
*/
package courier
