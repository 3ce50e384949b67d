package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/aretw0/courier"
	"github.com/aretw0/courier/internal/logging"
	"github.com/aretw0/courier/internal/presentation/tui"
	"github.com/aretw0/courier/pkg/runner"
	"github.com/gdamore/tcell/v2"
	"github.com/muesli/termenv"
)

// RunOptions contains all the configuration for the run command.
type RunOptions struct {
	Config    Config
	Input     string
	SessionID string
	Headless  bool
	JSON      bool
	Debug     bool
	Fresh     bool

	// Fullscreen plays the route in a tcell view instead of line output.
	Fullscreen bool
}

// RunSession plays one simulation on the terminal.
func RunSession(ctx context.Context, opts RunOptions) error {
	logger, err := CreateLogger(opts.Config, opts.Debug)
	if err != nil {
		return err
	}
	if opts.Fullscreen && !opts.Debug {
		// Log lines would tear the screen.
		logger = logging.NewNop()
	}

	interactive := !opts.JSON && !opts.Headless && !opts.Fullscreen
	if interactive && isTerminal(os.Stdout) {
		tui.PrintBanner(os.Stdout, courier.Version)
	}

	runnerOpts := []runner.Option{runner.WithLogger(logger)}

	if opts.SessionID != "" {
		cfg := opts.Config.Persistent()
		sessions, closeStore, err := CreateSessions(cfg, logger)
		if err != nil {
			return err
		}
		defer closeStore()

		if opts.Fresh {
			if err := sessions.Delete(ctx, opts.SessionID); err != nil {
				return fmt.Errorf("failed to reset session: %w", err)
			}
		}
		runnerOpts = append(runnerOpts, runner.WithSessions(sessions), runner.WithSessionID(opts.SessionID))
		logger.Info("Session active", "session_id", opts.SessionID, "store", cfg.Store)
	}

	input := strings.TrimSpace(opts.Input)
	if input == "" && (opts.Headless || opts.Fullscreen) && opts.SessionID == "" {
		input = opts.Config.Input
	}

	var view *tui.ScreenHandler
	switch {
	case opts.Fullscreen:
		screen, err := tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("failed to open screen: %w", err)
		}
		if err := screen.Init(); err != nil {
			return fmt.Errorf("failed to init screen: %w", err)
		}
		defer screen.Fini()

		var cancel context.CancelFunc
		ctx, cancel = context.WithCancel(ctx)
		defer cancel()
		view = tui.NewScreenHandler(screen, cancel)
		runnerOpts = append(runnerOpts, runner.WithInputHandler(view))
	case opts.JSON:
		runnerOpts = append(runnerOpts, runner.WithInputHandler(runner.NewJSONHandler(os.Stdin, os.Stdout)))
	case opts.Headless:
		runnerOpts = append(runnerOpts, runner.WithInputHandler(runner.NewTextHandler(os.Stdout)))
	default:
		renderer := tui.NewGridRenderer(termenv.EnvColorProfile())
		runnerOpts = append(runnerOpts, runner.WithInputHandler(
			runner.NewTextHandler(os.Stdout, runner.WithTextHandlerRenderer(renderer)),
		))
	}

	engine := CreateEngine(opts.Config, logger, opts.Debug)
	s, runErr := runner.NewRunner(runnerOpts...).Run(ctx, engine, input)

	if view != nil && runErr == nil {
		select {
		case <-view.Done():
		case <-ctx.Done():
		}
	}

	if s != nil && !opts.JSON {
		logger.Debug("Run finished", "session_id", s.ID, "status", s.Status, "result", s.Result)
	}
	return handleExecutionError(runErr)
}
