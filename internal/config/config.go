// Package config defines service configuration and its defaults.
package config

import "github.com/okian/copa/internal/adapters/repository"

// Record sources.
const (
	SourceCSV    = "csv"
	SourceSQLite = "sqlite"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error (any case).
	LogLevel string `koanf:"log_level" validate:"oneof=debug info warn warning error"`

	// LogFormat selects text or json log output.
	LogFormat string `koanf:"log_format" validate:"oneof=text json"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr" validate:"required"`

	// Source selects where records are read from: csv or sqlite.
	Source string `koanf:"source" validate:"oneof=csv sqlite"`

	// DataDir holds the three CSV files when Source is csv.
	DataDir string `koanf:"data_dir" validate:"required_if=Source csv"`

	// CSV file names inside DataDir.
	TournamentsFile string `koanf:"tournaments_file"`
	MatchesFile     string `koanf:"matches_file"`
	PlayersFile     string `koanf:"players_file"`

	// SQLitePath is the database file when Source is sqlite.
	SQLitePath string `koanf:"sqlite_path" validate:"required_if=Source sqlite"`

	// DefaultScorerLimit is used when a scorer query omits limit.
	DefaultScorerLimit int `koanf:"default_scorer_limit" validate:"gt=0,ltefield=MaxScorerLimit"`

	// MaxScorerLimit caps GET /countries/{country}/scorers?limit.
	MaxScorerLimit int `koanf:"max_scorer_limit" validate:"gt=0"`

	// CORSAllowedOrigins lists browser origins allowed to call the API.
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins"`

	// MetricsNamespace and MetricsSubsystem form the metric name prefix,
	// e.g. copa_stats_countries.
	MetricsNamespace string `koanf:"metrics_namespace" validate:"required,metricname"`
	MetricsSubsystem string `koanf:"metrics_subsystem" validate:"omitempty,metricname"`

	// MetricsLabels are constant labels attached to every metric.
	MetricsLabels map[string]string `koanf:"metrics_labels" validate:"dive,keys,metricname,endkeys"`

	// MetricsLatencyBuckets overrides the query and HTTP latency histogram
	// buckets, in milliseconds.
	MetricsLatencyBuckets []float64 `koanf:"metrics_latency_buckets" validate:"dive,gt=0"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		LogFormat:          "text",
		Addr:               ":9080",
		Source:             SourceCSV,
		DataDir:            "data",
		TournamentsFile:    repository.DefaultTournamentsFile,
		MatchesFile:        repository.DefaultMatchesFile,
		PlayersFile:        repository.DefaultPlayersFile,
		DefaultScorerLimit: 10,
		MaxScorerLimit:     100,
		CORSAllowedOrigins: []string{"*"},
		MetricsNamespace:   "copa",
		MetricsSubsystem:   "stats",
	}
}
