package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/podium/internal/config"
)

// clearConfigEnvVars removes every PODIUM_ variable a test may have set.
func clearConfigEnvVars() {
	for _, key := range []string{
		"PODIUM_CONFIG",
		"PODIUM_ADDR",
		"PODIUM_BACKEND",
		"PODIUM_DATA_DIR",
		"PODIUM_DB_PATH",
		"PODIUM_TOP_N",
		"PODIUM_MAX_RETRIES",
		"PODIUM_ALLOWED_IPS",
	} {
		_ = os.Unsetenv(key)
	}
}

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
				convey.So(cfg.Backend, convey.ShouldEqual, config.BackendMemory)
				convey.So(cfg.TopN, convey.ShouldEqual, 10)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			clearConfigEnvVars()
			_ = os.Setenv("PODIUM_ADDR", ":8080")
			_ = os.Setenv("PODIUM_BACKEND", "sqlite")
			_ = os.Setenv("PODIUM_DB_PATH", "/tmp/test-scores.db")
			_ = os.Setenv("PODIUM_TOP_N", "5")
			_ = os.Setenv("PODIUM_MAX_RETRIES", "9")
			_ = os.Setenv("PODIUM_ALLOWED_IPS", "127.0.0.1,10.0.0.1")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then env vars should override defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.Backend, convey.ShouldEqual, config.BackendSQLite)
				convey.So(cfg.DBPath, convey.ShouldEqual, "/tmp/test-scores.db")
				convey.So(cfg.TopN, convey.ShouldEqual, 5)
				convey.So(cfg.MaxRetries, convey.ShouldEqual, 9)
				convey.So(cfg.AllowedIPs, convey.ShouldResemble, []string{"127.0.0.1", "10.0.0.1"})
			})
		})

		convey.Convey("When loading config from a YAML file", func() {
			clearConfigEnvVars()
			dir := t.TempDir()
			path := filepath.Join(dir, "podium.yaml")
			yaml := "addr: \":7070\"\nbackend: file\ndata_dir: /tmp/games\ntop_n: 3\n"
			convey.So(os.WriteFile(path, []byte(yaml), 0o600), convey.ShouldBeNil)
			_ = os.Setenv("PODIUM_CONFIG", path)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then file values should override defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
				convey.So(cfg.Backend, convey.ShouldEqual, config.BackendFile)
				convey.So(cfg.DataDir, convey.ShouldEqual, "/tmp/games")
				convey.So(cfg.TopN, convey.ShouldEqual, 3)
			})

			convey.Convey("And env should still win over the file", func() {
				_ = os.Setenv("PODIUM_ADDR", ":6060")
				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":6060")
			})
		})

		convey.Convey("When the config is invalid", func() {
			clearConfigEnvVars()
			defer clearConfigEnvVars()

			convey.Convey("Then an unknown backend should be rejected", func() {
				_ = os.Setenv("PODIUM_BACKEND", "oracle")
				_, err := config.Load(ctx)
				convey.So(err, convey.ShouldWrap, config.ErrInvalidConfig)
			})

			convey.Convey("And a non-positive top_n should be rejected", func() {
				_ = os.Setenv("PODIUM_TOP_N", "0")
				_, err := config.Load(ctx)
				convey.So(err, convey.ShouldWrap, config.ErrInvalidConfig)
			})
		})
	})
}
