package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/sagarc03/testconfig/config"
)

var version = "dev"

var (
	configFiles []string
	envPrefix   string
	properties  map[string]string
	logLevel    string
	environment string
)

var rootCmd = &cobra.Command{
	Version: version,
	Use:     "testconfig",
	Short:   "Inspect the configuration injected into tests",
	Long: `testconfig resolves configuration keys exactly the way tests receive them,
layering property files, environment variables and --set properties.

Precedence (highest first):
  - --set key=value properties
  - environment variables (KEY_NAME, optionally prefixed)
  - --config files, later files override earlier ones
  - ./testconfig.properties when no --config is given`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogging(cmd.ErrOrStderr(), environment, logLevel)

		provider, err := loadProvider()
		if err != nil {
			return err
		}
		cmd.SetContext(config.WithContext(cmd.Context(), provider))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringSliceVarP(&configFiles, "config", "c", nil, "config file path, repeatable (default: ./testconfig.properties)")
	rootCmd.PersistentFlags().StringVar(&envPrefix, "env-prefix", "", "prefix for environment variable names")
	rootCmd.PersistentFlags().StringToStringVar(&properties, "set", nil, "process property key=value, overrides every other source")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&environment, "env", "", "environment, prod switches to JSON logs")

	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(dumpCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
