package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aretw0/courier/internal/schema"
	"github.com/spf13/cobra"
)

var schemaCmd = &cobra.Command{
	Use:   "schema <document>",
	Short: "Print the JSON Schema of a courier document",
	Long: fmt.Sprintf(`Prints the JSON Schema of one of the documents courier reads or writes.

Documents: %s`, strings.Join(schema.Names(), ", ")),
	Args:      cobra.ExactArgs(1),
	ValidArgs: schema.Names(),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := schema.Generate(args[0])
		if err != nil {
			return err
		}
		data, err := json.MarshalIndent(s, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal schema: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}
