package main

import (
	"fmt"

	"github.com/aretw0/courier/internal/cli"
	"github.com/aretw0/courier/internal/presentation/graph"
	"github.com/aretw0/courier/pkg/domain"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph [input]",
	Short: "Export the route visualization",
	Long: `Plans the route and outputs a Mermaid diagram (graph LR) of its legs.
With --session the courier's stored progress is highlighted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logger, err := cli.CreateLogger(cfg, debugEnabled(cmd))
		if err != nil {
			return err
		}

		input := inputFromArgs(args, cfg.Input)
		var overlay *graph.RouteOverlay

		if sessionID, _ := cmd.Flags().GetString("session"); sessionID != "" {
			sessions, closeStore, err := cli.CreateSessions(cfg.Persistent(), logger)
			if err != nil {
				return err
			}
			defer closeStore()

			s, err := sessions.Load(cmd.Context(), sessionID)
			if err != nil {
				return fmt.Errorf("failed to load session %q: %w", sessionID, err)
			}
			if len(args) == 0 && s.Input != "" {
				input = s.Input
			}
			overlay = overlayFor(s)
		}

		route, err := cli.CreateEngine(cfg, logger, false).Plan(cmd.Context(), input)
		if err != nil {
			return err
		}

		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(route, overlay))
		return nil
	},
}

func overlayFor(s *domain.Session) *graph.RouteOverlay {
	return &graph.RouteOverlay{Current: s.Current, Delivered: len(s.Result)}
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().StringP("session", "s", "", "Highlight the progress of a stored session")
}
