/*
Package runner plays a courier simulation through pluggable I/O.

It acts as the bridge between the Engine and the outside world. The runner
prompts for input when none is given, turns lifecycle hooks into Events,
persists the session after every delivery and stops on SIGINT/SIGTERM.

# Key Components

  - Runner: drives one simulation.
  - IOHandler: decouples presentation (text, JSON Lines) from the run.
  - TextHandler: interactive CLI output, with an optional grid renderer.
  - JSONHandler: one JSON Event per line for scripts and agents.

# Usage

	r := runner.NewRunner(
		runner.WithSessionID("user-1"),
		runner.WithSessions(session.NewManager(store)),
		runner.WithInputHandler(runner.NewTextHandler(os.Stdout)),
	)

	s, err := r.Run(ctx, courier.New(), "5x5 (1, 3) (2, 0) (3, 2)")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(s.Result)
*/
package runner
