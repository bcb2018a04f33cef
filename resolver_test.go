package testconfig_test

import (
	"errors"
	"reflect"
	"testing"
	"testing/fstest"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagarc03/testconfig"
	"github.com/sagarc03/testconfig/config"
)

var (
	stringType = reflect.TypeFor[string]()
	intType    = reflect.TypeFor[int]()
)

func param(name string, typ reflect.Type, p *testconfig.Property) testconfig.Parameter {
	return testconfig.Parameter{Name: name, Type: typ, Property: p}
}

func propPtr(p testconfig.Property) *testconfig.Property {
	return &p
}

func TestNewResolver_NilProvider(t *testing.T) {
	resolver, err := testconfig.NewResolver(nil)

	require.ErrorIs(t, err, testconfig.ErrNilProvider)
	assert.Nil(t, resolver)
}

func TestResolver_Supports(t *testing.T) {
	stub := &stubProvider{}
	resolver, err := testconfig.NewResolver(stub)
	require.NoError(t, err)

	tests := []struct {
		name  string
		param testconfig.Parameter
		want  bool
	}{
		{
			name:  "parameter without property",
			param: param("value", stringType, nil),
			want:  false,
		},
		{
			name:  "required property with undefined key",
			param: param("value", stringType, propPtr(testconfig.Key("undefined.string.property"))),
			want:  true,
		},
		{
			name:  "property with default",
			param: param("value", intType, propPtr(testconfig.Key("count").WithDefault("-1"))),
			want:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, resolver.Supports(tt.param))
		})
	}

	assert.Empty(t, stub.calls, "Supports must not consult the provider")
}

func TestResolver_Resolve_Scenarios(t *testing.T) {
	t.Setenv("TC_GREETING_ENV", "hello")
	t.Setenv("TC_ANSWER", "42")

	resolver := newResolver(t, config.Options{EnvPrefix: "TC"})

	tests := []struct {
		name    string
		param   testconfig.Parameter
		want    any
		wantErr error
	}{
		{
			name:  "required key from environment",
			param: param("greeting", stringType, propPtr(testconfig.Key("greeting.env"))),
			want:  "hello",
		},
		{
			name:    "required key undefined everywhere",
			param:   param("missing", stringType, propPtr(testconfig.Key("missing.key"))),
			wantErr: testconfig.ErrNotFound,
		},
		{
			name:  "undefined key falls back to default",
			param: param("missing", stringType, propPtr(testconfig.Key("missing.key").WithDefault("fallback"))),
			want:  "fallback",
		},
		{
			name:  "configured value beats default",
			param: param("greeting", stringType, propPtr(testconfig.Key("greeting.env").WithDefault("fallback"))),
			want:  "hello",
		},
		{
			name:  "configured value converted to integer",
			param: param("answer", intType, propPtr(testconfig.Key("answer"))),
			want:  42,
		},
		{
			name:  "default converted to integer",
			param: param("count", intType, propPtr(testconfig.Key("count").WithDefault("-1"))),
			want:  -1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolver.Resolve(tt.param)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolver_Resolve_EmptyValues(t *testing.T) {
	t.Setenv("TC_EMPTY_VALUE", "")

	resolver := newResolver(t, config.Options{EnvPrefix: "TC"})

	t.Run("configured empty value beats default", func(t *testing.T) {
		got, err := resolver.Resolve(param("v", stringType, propPtr(testconfig.Key("empty.value").WithDefault("fallback"))))
		require.NoError(t, err)
		assert.Equal(t, "", got)
	})

	t.Run("empty default is a real default", func(t *testing.T) {
		got, err := resolver.Resolve(param("v", stringType, propPtr(testconfig.Key("missing.key").WithDefault(""))))
		require.NoError(t, err)
		assert.Equal(t, "", got)
	})

	t.Run("configured zero integer beats default", func(t *testing.T) {
		r := newResolver(t, config.Options{Properties: map[string]string{"retries": "0"}})
		got, err := r.Resolve(param("v", intType, propPtr(testconfig.Key("retries").WithDefault("3"))))
		require.NoError(t, err)
		assert.Equal(t, 0, got)
	})
}

func TestResolver_Resolve_ConversionErrors(t *testing.T) {
	resolver := newResolver(t, config.Options{Properties: map[string]string{"answer": "forty-two"}})

	tests := []struct {
		name  string
		param testconfig.Parameter
	}{
		{
			name:  "configured value",
			param: param("answer", intType, propPtr(testconfig.Key("answer"))),
		},
		{
			name:  "configured value with default",
			param: param("answer", intType, propPtr(testconfig.Key("answer").WithDefault("1"))),
		},
		{
			name:  "default value",
			param: param("count", intType, propPtr(testconfig.Key("count").WithDefault("many"))),
		},
		{
			name:  "empty default for integer",
			param: param("count", intType, propPtr(testconfig.Key("count").WithDefault(""))),
		},
		{
			name:  "fractional default for integer",
			param: param("count", intType, propPtr(testconfig.Key("count").WithDefault("42.7"))),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := resolver.Resolve(tt.param)
			require.ErrorIs(t, err, testconfig.ErrConversion)
		})
	}
}

func TestResolver_Resolve_ParentKey(t *testing.T) {
	packaged := fstest.MapFS{
		config.DefaultFileName: {Data: []byte("server.port=1\n")},
	}
	resolver := newResolver(t, config.Options{FS: packaged})

	t.Run("without default is not found", func(t *testing.T) {
		_, err := resolver.Resolve(param("server", stringType, propPtr(testconfig.Key("server"))))
		require.ErrorIs(t, err, testconfig.ErrNotFound)
	})

	t.Run("with default falls back", func(t *testing.T) {
		got, err := resolver.Resolve(param("server", stringType, propPtr(testconfig.Key("server").WithDefault("fallback"))))
		require.NoError(t, err)
		assert.Equal(t, "fallback", got)
	})

	t.Run("child key still resolves", func(t *testing.T) {
		got, err := resolver.Resolve(param("port", intType, propPtr(testconfig.Key("server.port"))))
		require.NoError(t, err)
		assert.Equal(t, 1, got)
	})
}

func TestResolver_Resolve_ProviderCalls(t *testing.T) {
	tests := []struct {
		name      string
		values    map[string]any
		prop      testconfig.Property
		want      any
		wantCalls []string
	}{
		{
			name:      "required lookup only",
			values:    map[string]any{"greeting.env": "hello"},
			prop:      testconfig.Key("greeting.env"),
			want:      "hello",
			wantCalls: []string{"required:greeting.env"},
		},
		{
			name:      "optional hit skips conversion of default",
			values:    map[string]any{"greeting.env": "hello"},
			prop:      testconfig.Key("greeting.env").WithDefault("fallback"),
			want:      "hello",
			wantCalls: []string{"optional:greeting.env"},
		},
		{
			name:      "optional miss converts default",
			prop:      testconfig.Key("missing.key").WithDefault("fallback"),
			want:      "fallback",
			wantCalls: []string{"optional:missing.key", "convert:fallback"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubProvider{values: tt.values}
			resolver, err := testconfig.NewResolver(stub)
			require.NoError(t, err)

			got, err := resolver.Resolve(param("value", stringType, &tt.prop))
			require.NoError(t, err)

			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantCalls, stub.calls)
		})
	}
}

func TestResolver_Resolve_PropagatesProviderErrors(t *testing.T) {
	errBoom := errors.New("boom")

	for _, p := range []testconfig.Property{
		testconfig.Key("any.key"),
		testconfig.Key("any.key").WithDefault("fallback"),
	} {
		stub := &stubProvider{err: errBoom}
		resolver, err := testconfig.NewResolver(stub)
		require.NoError(t, err)

		_, err = resolver.Resolve(param("value", stringType, &p))
		assert.Equal(t, errBoom, err)
	}
}

func TestResolver_Resolve_UnsupportedParameter(t *testing.T) {
	resolver, err := testconfig.NewResolver(&stubProvider{})
	require.NoError(t, err)

	_, err = resolver.Resolve(param("plain", stringType, nil))
	require.ErrorIs(t, err, testconfig.ErrUnsupportedParameter)

	_, err = resolver.Resolve(param("untyped", nil, propPtr(testconfig.Key("greeting.env"))))
	require.ErrorIs(t, err, testconfig.ErrUnsupportedParameter)
}

func TestResolver_Resolve_Duration(t *testing.T) {
	resolver := newResolver(t, config.Options{Properties: map[string]string{"client.timeout": "1500ms"}})

	got, err := resolver.Resolve(param("timeout", reflect.TypeFor[time.Duration](), propPtr(testconfig.Key("client.timeout"))))
	require.NoError(t, err)
	assert.Equal(t, 1500*time.Millisecond, got)
}

func TestResolver_Properties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("resolution is idempotent", prop.ForAll(
		func(key, value string) bool {
			resolver := newResolver(t, config.Options{Properties: map[string]string{key: value}})
			p := param("value", stringType, propPtr(testconfig.Key(key)))

			first, err := resolver.Resolve(p)
			if err != nil {
				return false
			}
			for range 3 {
				again, err := resolver.Resolve(p)
				if err != nil || again != first {
					return false
				}
			}
			return first == value
		},
		gen.Identifier(),
		gen.AlphaString(),
	))

	properties.Property("configured value beats any default", prop.ForAll(
		func(key, value, def string) bool {
			resolver := newResolver(t, config.Options{Properties: map[string]string{key: value}})

			got, err := resolver.Resolve(param("value", stringType, propPtr(testconfig.Key(key).WithDefault(def))))
			return err == nil && got == value
		},
		gen.Identifier(),
		gen.AlphaString(),
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}
