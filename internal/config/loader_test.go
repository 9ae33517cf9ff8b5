package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/okian/portfolio/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Port, convey.ShouldEqual, 3000)
				convey.So(cfg.Environment, convey.ShouldEqual, "development")
				convey.So(cfg.ContactDelayMS, convey.ShouldEqual, 1000)
				convey.So(cfg.MetricsEnabled, convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("PORT", "8080")
			_ = os.Setenv("NODE_ENV", "production")
			_ = os.Setenv("CONTACT_DELAY_MS", "250")
			_ = os.Setenv("METRICS_ENABLED", "false")
			_ = os.Setenv("STATIC_DIR", "/srv/site")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Port, convey.ShouldEqual, 8080)
				convey.So(cfg.Environment, convey.ShouldEqual, "production")
				convey.So(cfg.IsProduction(), convey.ShouldBeTrue)
				convey.So(cfg.ContactDelayMS, convey.ShouldEqual, 250)
				convey.So(cfg.MetricsEnabled, convey.ShouldBeFalse)
				convey.So(cfg.StaticDir, convey.ShouldEqual, "/srv/site")
			})
		})

		convey.Convey("When both NODE_ENV and APP_ENV are set", func() {
			_ = os.Setenv("NODE_ENV", "production")
			_ = os.Setenv("APP_ENV", "staging")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then NODE_ENV should win", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Environment, convey.ShouldEqual, "production")
			})
		})

		convey.Convey("When only APP_ENV is set", func() {
			_ = os.Setenv("APP_ENV", "staging")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should be used as the environment", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Environment, convey.ShouldEqual, "staging")
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
port: 9090
environment: production
contact_delay_ms: 10
contact_rate_limit: 5
contact_rate_window_seconds: 30
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("PORTFOLIO_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Port, convey.ShouldEqual, 9090)
				convey.So(cfg.Environment, convey.ShouldEqual, "production")
				convey.So(cfg.ContactDelayMS, convey.ShouldEqual, 10)
				convey.So(cfg.ContactRateLimit, convey.ShouldEqual, 5)
				convey.So(cfg.ContactRateWindowSeconds, convey.ShouldEqual, 30)
				convey.So(cfg.StaticDir, convey.ShouldEqual, "public") // From defaults
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			tmpFile := createTempConfigFile("port: 9090\ncontact_delay_ms: 10\n")
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("PORTFOLIO_CONFIG", tmpFile)
			_ = os.Setenv("PORT", "8080")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Port, convey.ShouldEqual, 8080)         // Overridden by env
				convey.So(cfg.ContactDelayMS, convey.ShouldEqual, 10) // From file
			})
		})

		convey.Convey("When explicit overrides are given", func() {
			tmpFile := createTempConfigFile("port: 9090\n")
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("PORT", "8080")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx, config.WithFile(tmpFile), config.WithPort(7070))

			convey.Convey("Then they should take precedence over everything", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Port, convey.ShouldEqual, 7070)
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("PORTFOLIO_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("PORTFOLIO_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("PORT", "not_a_number")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with an out of range port", func() {
			_ = os.Setenv("PORT", "70000")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "port must be in 1..65535")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with a negative contact delay", func() {
			_ = os.Setenv("CONTACT_DELAY_MS", "-1")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When unrelated environment variables are set", func() {
			_ = os.Setenv("SHELL_SOMETHING", "x")
			defer func() { _ = os.Unsetenv("SHELL_SOMETHING") }()

			cfg, err := config.Load(ctx)

			convey.Convey("Then they should be ignored", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Port, convey.ShouldEqual, 3000)
			})
		})
	})
}

func TestConfigValidate(t *testing.T) {
	convey.Convey("Given a default config", t, func() {
		cfg := config.New()

		convey.Convey("When the rate limit is enabled without a window", func() {
			cfg.ContactRateLimit = 3
			cfg.ContactRateWindowSeconds = 0

			convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
		})

		convey.Convey("When the environment is blank", func() {
			cfg.Environment = "  "

			convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
		})

		convey.Convey("When the body limit is zero", func() {
			cfg.MaxBodyBytes = 0

			convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"PORTFOLIO_CONFIG",
		"LOG_LEVEL",
		"HOST",
		"PORT",
		"NODE_ENV",
		"APP_ENV",
		"CONTACT_DELAY_MS",
		"STATIC_DIR",
		"MAX_BODY_BYTES",
		"METRICS_ENABLED",
		"CONTACT_RATE_LIMIT",
		"CONTACT_RATE_WINDOW_SECONDS",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "portfolio-config-*.yaml")
	if err != nil {
		panic(err)
	}

	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}

	if err := tmpFile.Close(); err != nil {
		panic(err)
	}

	return tmpFile.Name()
}
