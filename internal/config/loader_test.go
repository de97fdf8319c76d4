package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/okian/engage/internal/config"
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
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.NotificationQueueSize, convey.ShouldEqual, 1024)
				convey.So(cfg.InboxSize, convey.ShouldEqual, 50)
				convey.So(cfg.PointsPolicy, convey.ShouldEqual, "reset")
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("ENGAGE_ADDR", ":8080")
			_ = os.Setenv("ENGAGE_NOTIFICATION_QUEUE_SIZE", "64")
			_ = os.Setenv("ENGAGE_INBOX_SIZE", "10")
			_ = os.Setenv("ENGAGE_POINTS_POLICY", "per_event")
			_ = os.Setenv("ENGAGE_LOG_FORMAT", "json")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.NotificationQueueSize, convey.ShouldEqual, 64)
				convey.So(cfg.InboxSize, convey.ShouldEqual, 10)
				convey.So(cfg.PointsPolicy, convey.ShouldEqual, "per_event")
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
addr: ":9090"
catalog_path: /etc/engage/catalog.yaml
notification_queue_size: 300
inbox_size: 25
tiers:
  - name: Starter
    min: 0
  - name: Pro
    min: 1000
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("ENGAGE_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.CatalogPath, convey.ShouldEqual, "/etc/engage/catalog.yaml")
				convey.So(cfg.NotificationQueueSize, convey.ShouldEqual, 300)
				convey.So(cfg.InboxSize, convey.ShouldEqual, 25)
				convey.So(len(cfg.Tiers), convey.ShouldEqual, 2)

				tbl, err := cfg.TierTable()
				convey.So(err, convey.ShouldBeNil)
				convey.So(tbl.Name(999), convey.ShouldEqual, "Starter")
				convey.So(tbl.Name(1000), convey.ShouldEqual, "Pro")
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			yamlContent := `
addr: ":9090"
inbox_size: 25
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("ENGAGE_CONFIG", tmpFile)
			_ = os.Setenv("ENGAGE_ADDR", ":8080")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.InboxSize, convey.ShouldEqual, 25)
				convey.So(cfg.NotificationQueueSize, convey.ShouldEqual, 1024)
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile("addr: [unterminated\n")
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("ENGAGE_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("ENGAGE_CONFIG", "/non/existent/engage.yaml")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("ENGAGE_INBOX_SIZE", "plenty")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with an unknown points policy", func() {
			_ = os.Setenv("ENGAGE_POINTS_POLICY", "carry_over")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with YAML file containing empty values", func() {
			tmpFile := createTempConfigFile("addr: \"\"\n")
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("ENGAGE_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then it should return validation error for empty addr", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"ENGAGE_CONFIG",
		"ENGAGE_ADDR",
		"ENGAGE_NOTIFICATION_QUEUE_SIZE",
		"ENGAGE_INBOX_SIZE",
		"ENGAGE_POINTS_POLICY",
		"ENGAGE_LOG_FORMAT",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "engage-config-*.yaml")
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
