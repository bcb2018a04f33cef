package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sagarc03/testconfig/config"
)

var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Print all settings from files and --set properties",
	Long: `Print the merged settings from config files and --set properties.

Environment variables are consulted per key at lookup time, so only values
for keys that also appear in another source are shown.`,
	Args: cobra.NoArgs,
	RunE: runDump,
}

func init() {
	dumpCmd.Flags().StringP("output", "o", "yaml", "output format: yaml, json")
}

func runDump(cmd *cobra.Command, args []string) error {
	provider, err := config.FromContext(cmd.Context())
	if err != nil {
		return err
	}

	settings := provider.Settings()
	out := cmd.OutOrStdout()

	format, _ := cmd.Flags().GetString("output")
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(settings); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(settings); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
