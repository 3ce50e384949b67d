package main

import (
	"strings"

	"github.com/aretw0/courier/internal/cli"
	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [input]",
	Short: "Plan a route and play it back step by step",
	Long: `Plans the route for the given input and delivers each step on the terminal
at the configured pace. Without input the command prompts for one.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		headless, _ := cmd.Flags().GetBool("headless")
		jsonMode, _ := cmd.Flags().GetBool("json")
		sessionID, _ := cmd.Flags().GetString("session")
		fresh, _ := cmd.Flags().GetBool("fresh")
		fullscreen, _ := cmd.Flags().GetBool("tui")

		if cmd.Flags().Changed("delay") {
			cfg.Delay, _ = cmd.Flags().GetDuration("delay")
		}
		if store, _ := cmd.Flags().GetString("store"); store != "" {
			cfg.Store = store
			if err := cfg.Validate(); err != nil {
				return err
			}
		}

		return cli.RunSession(cmd.Context(), cli.RunOptions{
			Config:    cfg,
			Input:     strings.Join(args, " "),
			SessionID: sessionID,
			Headless:  headless,
			JSON:      jsonMode,
			Debug:     debugEnabled(cmd),
			Fresh:     fresh,

			Fullscreen: fullscreen,
		})
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Bool("headless", false, "Plain output without banner or grid (uses the configured input when none is given)")
	runCmd.Flags().Bool("json", false, "Run in JSON mode (NDJSON input/output)")
	runCmd.Flags().StringP("session", "s", "", "Persist the run under this session ID and resume it later")
	runCmd.Flags().Bool("tui", false, "Play the route in a full-screen view (q to quit)")
	runCmd.Flags().Bool("fresh", false, "Discard the stored session before running")
	runCmd.Flags().Duration("delay", 0, "Pause before each delivery (overrides config)")
	runCmd.Flags().String("store", "", "Session store: memory, file or redis (overrides config)")

	rootCmd.RunE = runCmd.RunE
	rootCmd.Args = cobra.ArbitraryArgs
	rootCmd.Flags().AddFlagSet(runCmd.Flags())
}
