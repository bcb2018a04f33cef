package main

import (
	"fmt"
	"log/slog"
	"reflect"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/sagarc03/testconfig"
	"github.com/sagarc03/testconfig/config"
)

// targetTypes are the parameter types get can resolve to.
var targetTypes = map[string]reflect.Type{
	"string":   reflect.TypeFor[string](),
	"int":      reflect.TypeFor[int](),
	"int64":    reflect.TypeFor[int64](),
	"uint":     reflect.TypeFor[uint](),
	"float":    reflect.TypeFor[float64](),
	"bool":     reflect.TypeFor[bool](),
	"duration": reflect.TypeFor[time.Duration](),
	"strings":  reflect.TypeFor[[]string](),
}

var getCmd = &cobra.Command{
	Use:   "get KEY",
	Short: "Resolve a key the way a test parameter receives it",
	Long: `Resolve a configuration key through the same resolver tests use.

Without --default the key is required and a missing key is an error.
With --default a configured value always wins, even when it is empty.`,
	Example: `  testconfig get greeting.env
  testconfig get client.retries --type int --default 3`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

func init() {
	getCmd.Flags().StringP("type", "t", "string", "target type: "+strings.Join(typeNames(), ", "))
	getCmd.Flags().StringP("default", "d", "", "default used when the key is not configured")
}

func typeNames() []string {
	names := make([]string, 0, len(targetTypes))
	for name := range targetTypes {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func runGet(cmd *cobra.Command, args []string) error {
	provider, err := config.FromContext(cmd.Context())
	if err != nil {
		return err
	}

	typeName, _ := cmd.Flags().GetString("type")
	typ, ok := targetTypes[typeName]
	if !ok {
		return fmt.Errorf("unknown type %q, expected one of: %s", typeName, strings.Join(typeNames(), ", "))
	}

	prop := testconfig.Key(args[0])
	if cmd.Flags().Changed("default") {
		def, _ := cmd.Flags().GetString("default")
		prop = prop.WithDefault(def)
	}

	resolver, err := testconfig.NewResolver(provider)
	if err != nil {
		return err
	}

	value, err := resolver.Resolve(testconfig.Parameter{Name: args[0], Type: typ, Property: &prop})
	if err != nil {
		return err
	}
	slog.Debug("resolved key", "key", args[0], "type", typ.String())

	_, err = fmt.Fprintln(cmd.OutOrStdout(), value)
	return err
}
