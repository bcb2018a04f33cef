package testconfig_test

import (
	"fmt"
	"reflect"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"

	"github.com/sagarc03/testconfig"
	"github.com/sagarc03/testconfig/config"
)

// newResolver loads a provider from opts. An empty packaged FS is used unless
// the test supplies one, so a stray testconfig.properties never leaks in.
func newResolver(t *testing.T, opts config.Options) *testconfig.Resolver {
	t.Helper()

	if opts.FS == nil {
		opts.FS = fstest.MapFS{}
	}

	provider, err := config.Load(opts)
	require.NoError(t, err)

	resolver, err := testconfig.NewResolver(provider)
	require.NoError(t, err)

	return resolver
}

// stubProvider records calls and returns canned results.
type stubProvider struct {
	values map[string]any
	err    error
	calls  []string
}

func (s *stubProvider) Required(key string, typ reflect.Type) (any, error) {
	s.calls = append(s.calls, "required:"+key)
	if s.err != nil {
		return nil, s.err
	}
	v, ok := s.values[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", testconfig.ErrNotFound, key)
	}
	return v, nil
}

func (s *stubProvider) Optional(key string, typ reflect.Type) (any, bool, error) {
	s.calls = append(s.calls, "optional:"+key)
	if s.err != nil {
		return nil, true, s.err
	}
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *stubProvider) Convert(raw string, typ reflect.Type) (any, error) {
	s.calls = append(s.calls, "convert:"+raw)
	return config.Convert(raw, typ)
}

// fakeTB captures Fatalf instead of stopping the goroutine.
type fakeTB struct {
	testing.TB
	failed  bool
	message string
}

func (f *fakeTB) Helper() {}

func (f *fakeTB) Fatalf(format string, args ...any) {
	f.failed = true
	f.message = fmt.Sprintf(format, args...)
}
