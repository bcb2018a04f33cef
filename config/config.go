package config

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/magiconair/properties"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/sagarc03/testconfig"
)

// DefaultFileName is the property file read when no other file source is given.
const DefaultFileName = "testconfig.properties"

// ErrUnsupportedFormat is returned for config files with an unknown extension.
var ErrUnsupportedFormat = errors.New("unsupported config file format")

// providerKey is the context key for storing the loaded provider.
type providerKey struct{}

// WithContext returns a new context with the provider stored.
func WithContext(ctx context.Context, p *Provider) context.Context {
	return context.WithValue(ctx, providerKey{}, p)
}

// FromContext retrieves the provider from context.
// Returns an error if no provider is found.
func FromContext(ctx context.Context) (*Provider, error) {
	p, ok := ctx.Value(providerKey{}).(*Provider)
	if !ok || p == nil {
		return nil, errors.New("config provider not found in context")
	}
	return p, nil
}

// Options selects the sources a Provider is built from.
type Options struct {
	FS      fs.FS    `validate:"-"`             // packaged sources, usually an embed.FS
	FSFiles []string `validate:"dive,required"` // names within FS, default DefaultFileName
	Files   []string `validate:"dive,required"` // files on disk, later files override earlier ones

	EnvPrefix string `validate:"omitempty,printascii,excludesall=.="`

	Flags    *pflag.FlagSet    `validate:"-"`
	FlagKeys map[string]string `validate:"dive,keys,required,endkeys,required"` // flag name → key

	// Properties are process-level overrides with the highest precedence.
	Properties map[string]string `validate:"dive,keys,required,endkeys,omitempty"`
}

// Provider is a read-only view over the configured sources.
// It is safe for concurrent use once Load returns.
type Provider struct {
	v *viper.Viper
}

var _ testconfig.Provider = (*Provider)(nil)

// Load builds a Provider from the given options.
// Order of precedence (highest to lowest): properties > flags > env > files > packaged files
func Load(opts Options) (*Provider, error) {
	validate := validator.New()
	if err := validate.Struct(&opts); err != nil {
		return nil, fmt.Errorf("validate options: %w", err)
	}

	v := viper.New()

	// 1. Packaged files
	if opts.FS != nil {
		if err := mergePackaged(v, opts.FS, opts.FSFiles); err != nil {
			return nil, err
		}
	}

	// 2. Files on disk
	if len(opts.Files) > 0 {
		for _, f := range opts.Files {
			data, err := os.ReadFile(filepath.Clean(f)) //#nosec G304 -- path is a caller-provided config file
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}
			if err := mergeSource(v, f, data); err != nil {
				return nil, err
			}
			slog.Debug("merged config file", "file", f)
		}
	} else if opts.FS == nil {
		data, err := os.ReadFile(DefaultFileName)
		switch {
		case err == nil:
			if err := mergeSource(v, DefaultFileName, data); err != nil {
				return nil, err
			}
			slog.Debug("merged config file", "file", DefaultFileName)
		case !errors.Is(err, fs.ErrNotExist):
			slog.Warn("error reading config file", "file", DefaultFileName, "err", err)
		}
	}

	// 3. Environment variables
	if prefix := strings.TrimSuffix(opts.EnvPrefix, "_"); prefix != "" {
		v.SetEnvPrefix(prefix)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AllowEmptyEnv(true)
	v.AutomaticEnv()

	// 4. Flags
	if opts.Flags != nil {
		bindFlags(v, opts.Flags, opts.FlagKeys)
	}

	// 5. Process properties
	for key, value := range opts.Properties {
		v.Set(key, value)
	}

	return &Provider{v: v}, nil
}

func mergePackaged(v *viper.Viper, fsys fs.FS, names []string) error {
	optional := len(names) == 0
	if optional {
		names = []string{DefaultFileName}
	}

	for _, name := range names {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			if optional && errors.Is(err, fs.ErrNotExist) {
				slog.Debug("no packaged config file", "file", name)
				continue
			}
			return fmt.Errorf("read packaged config file: %w", err)
		}
		if err := mergeSource(v, name, data); err != nil {
			return err
		}
		slog.Debug("merged packaged config file", "file", name)
	}

	return nil
}

// mergeSource merges the content of a single file into v, picking the codec from
// the file extension.
func mergeSource(v *viper.Viper, name string, data []byte) error {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))

	switch ext {
	case "properties", "props", "prop":
		props, err := properties.Load(data, properties.UTF8)
		if err != nil {
			return fmt.Errorf("parse config file %s: %w", name, err)
		}
		if err := v.MergeConfigMap(nestKeys(props.Map())); err != nil {
			return fmt.Errorf("merge config file %s: %w", name, err)
		}
	case "yaml", "yml", "json", "toml", "env", "dotenv":
		v.SetConfigType(ext)
		if err := v.MergeConfig(bytes.NewReader(data)); err != nil {
			return fmt.Errorf("parse config file %s: %w", name, err)
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
	}

	return nil
}

// nestKeys turns dotted property keys into nested maps so they merge with
// structured files key by key. A key whose parent is already a value stays flat.
func nestKeys(flat map[string]string) map[string]any {
	lowered := make(map[string]string, len(flat))
	for key, value := range flat {
		lowered[strings.ToLower(key)] = value
	}
	keys := make([]string, 0, len(lowered))
	for key := range lowered {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	root := make(map[string]any, len(lowered))
	for _, key := range keys {
		parts := strings.Split(key, ".")
		node := root
		for i, part := range parts[:len(parts)-1] {
			child, exists := node[part]
			if !exists {
				next := make(map[string]any)
				node[part] = next
				node = next
				continue
			}
			next, ok := child.(map[string]any)
			if !ok {
				parts = append(parts[:i], strings.Join(parts[i:], "."))
				break
			}
			node = next
		}

		leaf := parts[len(parts)-1]
		if _, isMap := node[leaf].(map[string]any); isMap {
			slog.Warn("property shadowed by nested keys", "key", key)
			continue
		}
		node[leaf] = lowered[key]
	}

	return root
}

// bindFlags binds explicitly set CLI flags to viper keys with custom name mapping.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet, keys map[string]string) {
	flags.VisitAll(func(f *pflag.Flag) {
		// Use custom mapping if it exists, otherwise use flag name as-is
		key := f.Name
		if mapped, ok := keys[key]; ok {
			key = mapped
		}

		if f.Changed {
			_ = v.BindPFlag(key, f)
		}
	})
}

func (p *Provider) lookup(key string) (any, bool) {
	if !p.v.IsSet(key) {
		return nil, false
	}
	value := p.v.Get(key)
	// A parent of nested keys holds no value of its own.
	if _, isMap := value.(map[string]any); isMap {
		return nil, false
	}
	return value, true
}

// Required returns the value of key converted to typ.
// The error wraps testconfig.ErrNotFound when no source defines the key.
func (p *Provider) Required(key string, typ reflect.Type) (any, error) {
	raw, ok := p.lookup(key)
	if !ok {
		return nil, fmt.Errorf("%w: %s", testconfig.ErrNotFound, key)
	}
	return p.convertKey(key, raw, typ)
}

// Optional returns the value of key converted to typ and whether it is defined.
func (p *Provider) Optional(key string, typ reflect.Type) (any, bool, error) {
	raw, ok := p.lookup(key)
	if !ok {
		return nil, false, nil
	}
	value, err := p.convertKey(key, raw, typ)
	if err != nil {
		return nil, true, err
	}
	return value, true, nil
}

// Convert converts raw text to typ.
func (p *Provider) Convert(raw string, typ reflect.Type) (any, error) {
	return Convert(raw, typ)
}

func (p *Provider) convertKey(key string, raw any, typ reflect.Type) (any, error) {
	value, err := Convert(raw, typ)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return value, nil
}

// Keys returns all keys known from files, flags and properties, sorted.
// Environment variables only appear for keys that also exist elsewhere.
func (p *Provider) Keys() []string {
	keys := p.v.AllKeys()
	slices.Sort(keys)
	return keys
}

// Settings returns the merged settings as a nested map.
func (p *Provider) Settings() map[string]any {
	return p.v.AllSettings()
}
