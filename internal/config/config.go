// Package config defines the server configuration and its loading hooks.
//
// Conventions:
// - New returns a Config populated with defaults.
// - Load layers an optional YAML file and the process environment on top.
// - Validation errors wrap ErrInvalidConfig.
package config

import (
	"net"
	"strconv"
	"strings"
	"time"
)

// Environment names recognised by the server.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Host is the listen host; empty binds all interfaces.
	Host string `koanf:"host"`

	// Port is the TCP listen port.
	Port int `koanf:"port"`

	// Environment is "development" or "production". Production hides
	// internal error detail from 500 responses.
	Environment string `koanf:"environment"`

	// ContactDelayMS is the simulated processing time of a contact submission.
	ContactDelayMS int `koanf:"contact_delay_ms"`

	// StaticDir is the directory served as the site root. When it does not
	// exist the embedded site is served instead.
	StaticDir string `koanf:"static_dir"`

	// MaxBodyBytes caps request bodies accepted by the body parser.
	MaxBodyBytes int64 `koanf:"max_body_bytes"`

	// MetricsEnabled exposes GET /metrics.
	MetricsEnabled bool `koanf:"metrics_enabled"`

	// ContactRateLimit caps contact submissions per client within
	// ContactRateWindowSeconds. Zero disables the limiter.
	ContactRateLimit         int `koanf:"contact_rate_limit"`
	ContactRateWindowSeconds int `koanf:"contact_rate_window_seconds"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:                 "info",
		Port:                     3000,
		Environment:              EnvDevelopment,
		ContactDelayMS:           1000,
		StaticDir:                "public",
		MaxBodyBytes:             1 << 20,
		MetricsEnabled:           true,
		ContactRateLimit:         0,
		ContactRateWindowSeconds: 60,
	}
}

// Addr returns the host:port listen address.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// IsProduction reports whether the environment is production-like.
func (c *Config) IsProduction() bool {
	switch strings.ToLower(strings.TrimSpace(c.Environment)) {
	case EnvProduction, "prod":
		return true
	}
	return false
}

// ContactDelay returns ContactDelayMS as a duration.
func (c *Config) ContactDelay() time.Duration {
	return time.Duration(c.ContactDelayMS) * time.Millisecond
}

// ContactRateWindow returns ContactRateWindowSeconds as a duration.
func (c *Config) ContactRateWindow() time.Duration {
	return time.Duration(c.ContactRateWindowSeconds) * time.Second
}
