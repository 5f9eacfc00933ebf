package config_test

import (
	"context"
	"os"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/okian/copa/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()
		convey.Reset(clearConfigEnvVars)

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.Source, convey.ShouldEqual, "csv")
				convey.So(cfg.DefaultScorerLimit, convey.ShouldEqual, 10)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("COPA_ADDR", ":8080")
			_ = os.Setenv("COPA_SOURCE", "sqlite")
			_ = os.Setenv("COPA_SQLITE_PATH", "/var/lib/copa/worldcup.db")
			_ = os.Setenv("COPA_MAX_SCORER_LIMIT", "50")
			_ = os.Setenv("COPA_CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.Source, convey.ShouldEqual, config.SourceSQLite)
				convey.So(cfg.SQLitePath, convey.ShouldEqual, "/var/lib/copa/worldcup.db")
				convey.So(cfg.MaxScorerLimit, convey.ShouldEqual, 50)
				convey.So(cfg.CORSAllowedOrigins, convey.ShouldResemble, []string{"https://a.example", "https://b.example"})
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
# data lives next to the binary
addr: ":9090"
log_format: json
data_dir: /srv/worldcup
matches_file: matches.csv
default_scorer_limit: 5
`
			tmpFile := createTempConfigFile(t, yamlContent)
			_ = os.Setenv("COPA_CONFIG", tmpFile)

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should merge the file with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
				convey.So(cfg.DataDir, convey.ShouldEqual, "/srv/worldcup")
				convey.So(cfg.MatchesFile, convey.ShouldEqual, "matches.csv")
				convey.So(cfg.PlayersFile, convey.ShouldEqual, "WorldCupPlayers.csv")
				convey.So(cfg.DefaultScorerLimit, convey.ShouldEqual, 5)
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			tmpFile := createTempConfigFile(t, "addr: \":9090\"\nmax_scorer_limit: 40\n")
			_ = os.Setenv("COPA_CONFIG", tmpFile)
			_ = os.Setenv("COPA_ADDR", ":8080")

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.MaxScorerLimit, convey.ShouldEqual, 40)
			})
		})

		convey.Convey("When enumerated settings are given in upper case", func() {
			_ = os.Setenv("COPA_LOG_LEVEL", "INFO")
			_ = os.Setenv("COPA_LOG_FORMAT", " JSON ")
			_ = os.Setenv("COPA_SOURCE", "CSV")

			cfg, err := config.Load(ctx)

			convey.Convey("Then they should be accepted in lower case", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
				convey.So(cfg.Source, convey.ShouldEqual, config.SourceCSV)
			})
		})

		convey.Convey("When loading metrics settings", func() {
			tmpFile := createTempConfigFile(t, `
metrics_namespace: worldcup
metrics_subsystem: api
metrics_labels:
  release: "2018"
`)
			_ = os.Setenv("COPA_CONFIG", tmpFile)
			_ = os.Setenv("COPA_METRICS_LATENCY_BUCKETS", "5,50,500")

			cfg, err := config.Load(ctx)

			convey.Convey("Then the file and env values should both apply", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.MetricsNamespace, convey.ShouldEqual, "worldcup")
				convey.So(cfg.MetricsSubsystem, convey.ShouldEqual, "api")
				convey.So(cfg.MetricsLabels, convey.ShouldResemble, map[string]string{"release": "2018"})
				convey.So(cfg.MetricsLatencyBuckets, convey.ShouldResemble, []float64{5, 50, 500})
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(t, `invalid: yaml: content: [`)
			_ = os.Setenv("COPA_CONFIG", tmpFile)

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("COPA_CONFIG", "/non/existent/copa.yaml")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("COPA_MAX_SCORER_LIMIT", "lots")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

func TestConfigValidation(t *testing.T) {
	convey.Convey("Given config validation", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()
		convey.Reset(clearConfigEnvVars)

		convey.Convey("When addr is empty", func() {
			_ = os.Setenv("COPA_ADDR", "")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
			})
		})

		convey.Convey("When the source is unknown", func() {
			_ = os.Setenv("COPA_SOURCE", "postgres")

			_, err := config.Load(ctx)

			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			convey.So(err.Error(), convey.ShouldContainSubstring, "source must be one of: csv sqlite")
		})

		convey.Convey("When sqlite is selected without a path", func() {
			_ = os.Setenv("COPA_SOURCE", "sqlite")

			_, err := config.Load(ctx)

			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			convey.So(err.Error(), convey.ShouldContainSubstring, "sqlite_path must not be empty")
		})

		convey.Convey("When the default scorer limit exceeds the maximum", func() {
			_ = os.Setenv("COPA_DEFAULT_SCORER_LIMIT", "20")
			_ = os.Setenv("COPA_MAX_SCORER_LIMIT", "10")

			_, err := config.Load(ctx)

			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			convey.So(err.Error(), convey.ShouldContainSubstring, "default_scorer_limit must not exceed max_scorer_limit")
		})

		convey.Convey("When metric names are not valid Prometheus names", func() {
			cfg := config.New()
			cfg.MetricsNamespace = "copa-stats"
			cfg.MetricsLabels = map[string]string{"data release": "2018"}
			cfg.MetricsLatencyBuckets = []float64{5, -1}

			err := cfg.Validate()

			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			convey.So(err.Error(), convey.ShouldContainSubstring, "metrics_namespace must match")
			convey.So(err.Error(), convey.ShouldContainSubstring, "metrics_labels[data release] must match")
			convey.So(err.Error(), convey.ShouldContainSubstring, "metrics_latency_buckets[1] must be greater than 0")
		})

		convey.Convey("When the metrics subsystem is empty", func() {
			cfg := config.New()
			cfg.MetricsSubsystem = ""

			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("When several fields are wrong", func() {
			cfg := config.New()
			cfg.LogLevel = "loud"
			cfg.MaxScorerLimit = 0
			cfg.DefaultScorerLimit = 0

			err := cfg.Validate()

			convey.Convey("Then every problem is reported", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "log_level must be one of")
				convey.So(err.Error(), convey.ShouldContainSubstring, "max_scorer_limit must be greater than 0")
				convey.So(err.Error(), convey.ShouldContainSubstring, "default_scorer_limit must be greater than 0")
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"COPA_CONFIG",
		"COPA_ADDR",
		"COPA_SOURCE",
		"COPA_SQLITE_PATH",
		"COPA_DEFAULT_SCORER_LIMIT",
		"COPA_MAX_SCORER_LIMIT",
		"COPA_CORS_ALLOWED_ORIGINS",
		"COPA_LOG_LEVEL",
		"COPA_LOG_FORMAT",
		"COPA_METRICS_LATENCY_BUCKETS",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	tmpFile, err := os.CreateTemp(t.TempDir(), "copa-config-*.yaml")
	if err != nil {
		t.Fatalf("create temp config: %v", err)
	}
	if _, err := tmpFile.WriteString(content); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	if err := tmpFile.Close(); err != nil {
		t.Fatalf("close temp config: %v", err)
	}
	return tmpFile.Name()
}
