// Package config provides the layered configuration provider used by testconfig.
//
// The provider merges packaged files, files on disk, environment variables, CLI
// flags and process properties using viper, and converts values with spf13/cast.
//
// # Configuration Precedence
//
// Values are looked up in this order (later sources override earlier ones):
//
//  1. Packaged files from Options.FS (testconfig.properties by default)
//  2. Files on disk from Options.Files, merged left-to-right
//  3. Environment variables (optional prefix, read at lookup time)
//  4. CLI flags that were explicitly set
//  5. Process properties from Options.Properties
//
// When neither Options.FS nor Options.Files is given, ./testconfig.properties is
// read if it exists.
//
// # Usage
//
//	provider, err := config.Load(config.Options{
//	    Files:     []string{"testdata/integration.properties"},
//	    EnvPrefix: "IT",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	resolver, err := testconfig.NewResolver(provider)
//
// # Environment Variables
//
// Keys map to environment variables by upper-casing them and replacing . and -
// with _. With EnvPrefix "IT":
//   - greeting.env → IT_GREETING_ENV
//   - client.max-retries → IT_CLIENT_MAX_RETRIES
//
// An environment variable that is set to the empty string counts as configured.
//
// # File Formats
//
// Java-style .properties files (also .props and .prop) are parsed with
// magiconair/properties. YAML, JSON, TOML and dotenv files use viper's codecs.
//
// # Conversion
//
// Convert turns configured values and textual defaults into strings, booleans,
// sized integers and floats, durations, times, slices, pointers, named types and
// any type implementing encoding.TextUnmarshaler. Failures wrap
// testconfig.ErrConversion.
package config
