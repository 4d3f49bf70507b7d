package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/iam74k4/eventplayback/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
				convey.So(cfg.MetricsAddr, convey.ShouldEqual, "")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 4096)
				convey.So(cfg.DefaultMacroName, convey.ShouldEqual, "New Macro")
				convey.So(cfg.ExcludedKeys, convey.ShouldResemble, []string{"f9", "f10", "escape"})
				convey.So(cfg.DefaultLoopCount, convey.ShouldEqual, 1)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("EVENTPLAYBACK_LOG_LEVEL", "debug")
			_ = os.Setenv("EVENTPLAYBACK_METRICS_ADDR", ":9216")
			_ = os.Setenv("EVENTPLAYBACK_QUEUE_SIZE", "1024")
			_ = os.Setenv("EVENTPLAYBACK_DEFAULT_MACRO_NAME", "Session")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
				convey.So(cfg.MetricsAddr, convey.ShouldEqual, ":9216")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 1024)
				convey.So(cfg.DefaultMacroName, convey.ShouldEqual, "Session")
			})
		})

		convey.Convey("When loading config with a YAML file", func() {
			yamlContent := `
log_level: warn
metrics_addr: ":9300"
queue_size: 2048
default_loop_count: 3
excluded_keys:
  - f12
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("EVENTPLAYBACK_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from the file and keep defaults elsewhere", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.LogLevel, convey.ShouldEqual, "warn")
				convey.So(cfg.MetricsAddr, convey.ShouldEqual, ":9300")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 2048)
				convey.So(cfg.DefaultLoopCount, convey.ShouldEqual, 3)
				convey.So(cfg.ExcludedKeys, convey.ShouldResemble, []string{"f12"})
				convey.So(cfg.DefaultMacroName, convey.ShouldEqual, "New Macro") // From defaults
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			yamlContent := `
log_level: warn
queue_size: 2048
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("EVENTPLAYBACK_CONFIG", tmpFile)
			_ = os.Setenv("EVENTPLAYBACK_LOG_LEVEL", "error") // This should override the file
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.LogLevel, convey.ShouldEqual, "error") // Overridden by env
				convey.So(cfg.QueueSize, convey.ShouldEqual, 2048)   // From file
			})
		})

		convey.Convey("When loading config with an invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("EVENTPLAYBACK_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with a non-existent file", func() {
			_ = os.Setenv("EVENTPLAYBACK_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with a non-positive queue size", func() {
			_ = os.Setenv("EVENTPLAYBACK_QUEUE_SIZE", "0")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with an empty default macro name", func() {
			_ = os.Setenv("EVENTPLAYBACK_DEFAULT_MACRO_NAME", "")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with a negative loop count", func() {
			_ = os.Setenv("EVENTPLAYBACK_DEFAULT_LOOP_COUNT", "-2")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"EVENTPLAYBACK_CONFIG",
		"EVENTPLAYBACK_LOG_LEVEL",
		"EVENTPLAYBACK_METRICS_ADDR",
		"EVENTPLAYBACK_QUEUE_SIZE",
		"EVENTPLAYBACK_DEFAULT_MACRO_NAME",
		"EVENTPLAYBACK_DEFAULT_LOOP_COUNT",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "eventplayback-config-*.yaml")
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
