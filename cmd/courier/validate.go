package main

import (
	"fmt"

	"github.com/aretw0/courier/internal/compiler"
	"github.com/aretw0/courier/internal/validator"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [input]",
	Short: "Check an input for anomalies",
	Long: `Parses the input and reports targets outside the grid, duplicate targets and
malformed points. Anomalies are warnings unless --strict is set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		strict, _ := cmd.Flags().GetBool("strict")

		report, err := validator.ValidateInput(compiler.NewParser(), inputFromArgs(args, cfg.Input))
		if err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Grid %dx%d with %d targets\n", report.Rows, report.Cols, len(report.Points))
		if report.Clean() {
			fmt.Fprintln(out, "Input is valid! ✅")
			return nil
		}
		if strict {
			return report.Err()
		}
		fmt.Fprintf(out, "Warning: %v\n", report.Err())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().Bool("strict", false, "Fail on any anomaly")
}
