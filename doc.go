// Package testconfig injects externally configured values into Go tests.
//
// A test declares what it needs with struct tags and receives the values from a
// layered configuration provider, typically the one built by the config package.
//
// # Declaring parameters
//
// A field tagged with config is resolved from the provider. An optional default
// tag supplies the text used when the key is not configured anywhere. The default
// tag is only honored when present, so default:"" is a real empty default:
//
//	type params struct {
//	    Greeting string `config:"greeting.env"`
//	    Retries  int    `config:"client.retries" default:"3"`
//	    Token    string `config:"api.token" default:""`
//	}
//
// # Resolution
//
// Without a default the key is required and a missing key fails with ErrNotFound.
// With a default the configured value always wins, even when it is empty; the
// default is converted to the field type only when the key is absent. Conversion
// failures, for configured values and defaults alike, wrap ErrConversion.
//
// # Running tests
//
//	provider, err := config.Load(config.Options{})
//	require.NoError(t, err)
//	resolver, err := testconfig.NewResolver(provider)
//	require.NoError(t, err)
//
//	testconfig.Run(t, resolver, func(t *testing.T, p params) {
//	    assert.Equal(t, "hello", p.Greeting)
//	})
//
// Run, Inject and Populate all stop at the first parameter that cannot be
// resolved. Run and Inject report it with Fatalf, so the test body never executes.
// Value resolves a single property and is meant for TestMain and other setup code.
package testconfig
