package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// FileEnvVar names the variable holding an optional YAML config path.
const FileEnvVar = "PORTFOLIO_CONFIG"

// envKeys maps recognised environment variables to koanf keys.
var envKeys = map[string]string{
	"LOG_LEVEL":                   "log_level",
	"HOST":                        "host",
	"PORT":                        "port",
	"NODE_ENV":                    "environment",
	"APP_ENV":                     "environment",
	"CONTACT_DELAY_MS":            "contact_delay_ms",
	"STATIC_DIR":                  "static_dir",
	"MAX_BODY_BYTES":              "max_body_bytes",
	"METRICS_ENABLED":             "metrics_enabled",
	"CONTACT_RATE_LIMIT":          "contact_rate_limit",
	"CONTACT_RATE_WINDOW_SECONDS": "contact_rate_window_seconds",
}

// LoadOption overrides values after file and environment are applied.
type LoadOption func(*loadOptions)

type loadOptions struct {
	file string
	port int
}

// WithFile loads the given YAML file instead of $PORTFOLIO_CONFIG.
func WithFile(path string) LoadOption {
	return func(o *loadOptions) { o.file = path }
}

// WithPort overrides the listen port when port is non-zero.
func WithPort(port int) LoadOption {
	return func(o *loadOptions) { o.port = port }
}

// Load builds a Config by layering defaults, optional file, env vars and
// explicit overrides. Order of precedence (low -> high):
//  1. defaults (New())
//  2. YAML file (WithFile or $PORTFOLIO_CONFIG)
//  3. env (PORT, NODE_ENV, ...)
//  4. LoadOption overrides
func Load(_ context.Context, opts ...LoadOption) (*Config, error) {
	var o loadOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.file == "" {
		o.file = os.Getenv(FileEnvVar)
	}

	k := koanf.New(".")

	if o.file != "" {
		if err := k.Load(file.Provider(o.file), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, o.file, err)
		}
	}

	_, nodeEnvSet := os.LookupEnv("NODE_ENV")
	envProvider := env.Provider("", ".", func(s string) string {
		name := strings.ToUpper(s)
		key, ok := envKeys[name]
		if !ok {
			return ""
		}
		// NODE_ENV wins over APP_ENV.
		if name == "APP_ENV" && nodeEnvSet {
			return ""
		}
		return key
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := *New()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if o.port != 0 {
		cfg.Port = o.port
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field ranges.
func (c *Config) Validate() error {
	switch {
	case c.Port < 1 || c.Port > 65535:
		return fmt.Errorf("%w: port must be in 1..65535, got %d", ErrInvalidConfig, c.Port)
	case strings.TrimSpace(c.Environment) == "":
		return fmt.Errorf("%w: environment must not be empty", ErrInvalidConfig)
	case c.ContactDelayMS < 0:
		return fmt.Errorf("%w: contact_delay_ms must not be negative", ErrInvalidConfig)
	case c.MaxBodyBytes <= 0:
		return fmt.Errorf("%w: max_body_bytes must be positive", ErrInvalidConfig)
	case c.ContactRateLimit < 0:
		return fmt.Errorf("%w: contact_rate_limit must not be negative", ErrInvalidConfig)
	case c.ContactRateLimit > 0 && c.ContactRateWindowSeconds <= 0:
		return fmt.Errorf("%w: contact_rate_window_seconds must be positive", ErrInvalidConfig)
	}
	return nil
}
