package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/aretw0/courier/internal/cli"
	"github.com/aretw0/courier/internal/presentation/tui"
	"github.com/aretw0/courier/pkg/domain"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// planOutput is the machine-readable form of a planned route.
type planOutput struct {
	Rows    int             `json:"rows" yaml:"rows"`
	Cols    int             `json:"cols" yaml:"cols"`
	Route   string          `json:"route" yaml:"route"`
	Stops   []domain.Stop   `json:"stops" yaml:"stops"`
	Steps   int             `json:"steps" yaml:"steps"`
	Skipped []domain.Point  `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	Notices []domain.Notice `json:"notices,omitempty" yaml:"notices,omitempty"`
}

var planCmd = &cobra.Command{
	Use:   "plan [input]",
	Short: "Print the planned route without playing it back",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		format, _ := cmd.Flags().GetString("format")

		logger, err := cli.CreateLogger(cfg, debugEnabled(cmd))
		if err != nil {
			return err
		}
		engine := cli.CreateEngine(cfg, logger, debugEnabled(cmd))

		route, err := engine.Plan(cmd.Context(), inputFromArgs(args, cfg.Input))
		if err != nil {
			return err
		}
		return writePlan(cmd.OutOrStdout(), route, format)
	},
}

func writePlan(w io.Writer, route *domain.Route, format string) error {
	out := planOutput{
		Rows:    route.Rows,
		Cols:    route.Cols,
		Route:   route.String(),
		Stops:   route.Stops,
		Steps:   len(route.Steps),
		Skipped: route.Skipped,
		Notices: route.Notices,
	}

	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(out)
	case "text":
		rendered, err := tui.NewRenderer()(tui.RouteReport(route))
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(w, rendered)
		return err
	case "plain":
		_, err := fmt.Fprintln(w, out.Route)
		return err
	default:
		return fmt.Errorf("unknown format %q (want text, plain, json or yaml)", format)
	}
}

func init() {
	rootCmd.AddCommand(planCmd)
	planCmd.Flags().StringP("format", "f", "text", "Output format: text, plain, json or yaml")
}
