package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"gopkg.in/yaml.v3"
)

const (
	// PathEnv overrides the configuration file location.
	PathEnv = "TOOLING_CONFIG"
	// DefaultPath is read when PathEnv is unset. A missing file is not an error.
	DefaultPath = "tooling.yaml"

	envPrefix = "TOOLING_"
)

// envMappings maps environment variables onto koanf paths.
var envMappings = map[string]string{
	"TOOLING_DEFAULT_NETWORK":    "default_network",
	"TOOLING_LOG_LEVEL":          "log.level",
	"TOOLING_LOG_JSON":           "log.json",
	"TOOLING_HISTORY_ENABLED":    "history.enabled",
	"TOOLING_HISTORY_PATH":       "history.path",
	"TOOLING_TELEMETRY_ENDPOINT": "telemetry.endpoint",
}

// Loader assembles a Config from defaults, a YAML file and the environment,
// in increasing order of precedence.
type Loader struct {
	path    string
	environ func() []string
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithPath reads the YAML file at path instead of the default location.
func WithPath(path string) LoaderOption {
	return func(l *Loader) {
		l.path = path
	}
}

// WithEnviron replaces os.Environ as the environment source.
func WithEnviron(fn func() []string) LoaderOption {
	return func(l *Loader) {
		l.environ = fn
	}
}

// NewLoader creates a Loader with the given options.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		path:    os.Getenv(PathEnv),
		environ: os.Environ,
	}
	if l.path == "" {
		l.path = DefaultPath
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load builds and validates the configuration.
func (l *Loader) Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	data, err := readYAML(l.path)
	if err != nil {
		return nil, err
	}
	if len(data) > 0 {
		if err := k.Load(rawMap(data), nil); err != nil {
			return nil, fmt.Errorf("failed to apply %s: %w", l.path, err)
		}
	}

	if err := k.Load(env.Provider(".", env.Opt{
		Prefix:      envPrefix,
		EnvironFunc: l.environ,
		TransformFunc: func(key, value string) (string, any) {
			return envMappings[key], value
		},
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			WeaklyTypedInput: true,
			Result:           &cfg,
			TagName:          "koanf",
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToSliceHookFunc(","),
				mapstructure.TextUnmarshallerHookFunc(),
			),
		},
	}); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	for name, n := range cfg.Networks {
		n.Name = name
		cfg.Networks[name] = n
	}

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// Validate checks struct tags and the cross-field rules tags cannot express.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New("configuration cannot be nil")
	}
	if err := validator.New().Struct(cfg); err != nil {
		return err
	}
	if _, ok := cfg.Networks[cfg.DefaultNetwork]; !ok {
		return fmt.Errorf("default network %q is not configured", cfg.DefaultNetwork)
	}
	for _, name := range cfg.NetworkNames() {
		n := cfg.Networks[name]
		switch n.Kind {
		case KindEVM:
			if n.RPCURL == "" {
				return fmt.Errorf("network %q: rpc_url is required for evm networks", name)
			}
		case KindStellar:
			if n.HorizonURL == "" {
				return fmt.Errorf("network %q: horizon_url is required for stellar networks", name)
			}
		}
	}
	return nil
}

func readYAML(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	var out map[string]any
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return filterNilValues(out), nil
}

// filterNilValues drops nil values so empty YAML keys do not clobber defaults.
func filterNilValues(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if v == nil {
			continue
		}
		if nested, ok := v.(map[string]any); ok {
			v = filterNilValues(nested)
		}
		out[k] = v
	}
	return out
}

// rawMap is a koanf.Provider over an already decoded map.
type rawMap map[string]any

func (r rawMap) ReadBytes() ([]byte, error) {
	return nil, errors.New("rawMap provider does not support ReadBytes")
}

func (r rawMap) Read() (map[string]any, error) {
	return map[string]any(r), nil
}
