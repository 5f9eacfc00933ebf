// Package report queries a running copa service for every country, writes a
// JSON report and cross-checks the answers of different endpoints.
package report

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/okian/copa/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
	filePermission      = 0600
)

// Run executes a complete report run and returns the report it wrote. A
// failed verification still writes the report and returns ErrVerification.
func Run(ctx context.Context, cfg *Config) (*Report, error) {
	log := logger.Named("report")
	rep := &Report{
		RunID:   uuid.NewString(),
		BaseURL: cfg.BaseURL,
		Stats:   Stats{StartTime: time.Now()},
	}

	log.Info(ctx, "starting copa report",
		logger.String("runID", rep.RunID),
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("workers", cfg.Workers),
		logger.Duration("timeout", cfg.Timeout),
		logger.Int("topN", cfg.TopN),
		logger.Bool("verbose", cfg.Verbose),
	)

	client := newHTTPClient(cfg.BaseURL, cfg.Timeout)

	// Step 1: Check service health
	if err := client.Health(ctx); err != nil {
		return nil, errors.Wrap(err, "service health check failed")
	}

	// Step 2: Decide which countries to query
	countries := cfg.Countries
	if len(countries) == 0 {
		all, err := client.Countries(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "country list retrieval failed")
		}
		countries = all
	}

	// Step 3: Global title ranking
	titles, err := client.Titles(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "title retrieval failed")
	}
	rep.Titles = titles

	// Step 4: Per-country queries concurrently
	rep.Countries, err = fetchCountries(ctx, cfg, client, countries, &rep.Stats)
	if err != nil {
		return nil, errors.Wrap(err, "country retrieval failed")
	}

	// Step 5: Verify results
	rep.Verification = verifyResults(cfg, rep.Countries, titles)
	for _, p := range rep.Verification.Problems {
		log.Warn(ctx, "verification problem", logger.String("problem", p))
	}

	rep.Stats.EndTime = time.Now()
	rep.Stats.Duration = rep.Stats.EndTime.Sub(rep.Stats.StartTime)
	rep.GeneratedAt = rep.Stats.EndTime.UTC()

	// Step 6: Save report
	filename, err := saveReport(cfg, rep)
	if err != nil {
		return rep, errors.Wrap(err, "saving report failed")
	}
	log.Info(ctx, "report saved", logger.String("filename", filename))

	displayFinalStats(ctx, rep)

	if !rep.Verification.OK() {
		return rep, errors.Mark(errors.Newf("%d problems", len(rep.Verification.Problems)), ErrVerification)
	}
	log.Info(ctx, "report completed successfully")
	return rep, nil
}

// saveReport writes rep as indented JSON and returns the file name used.
func saveReport(cfg *Config, rep *Report) (string, error) {
	filename := cfg.OutputFile
	if filename == "" {
		filename = "copa_report_" + rep.Stats.StartTime.Format("20060102_150405") + ".json"
	}

	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return "", errors.Wrap(err, "create directory")
		}
	}

	data, err := sonic.ConfigStd.MarshalIndent(rep, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "encode report")
	}
	if err := os.WriteFile(filename, append(data, '\n'), filePermission); err != nil {
		return "", errors.Wrap(err, "write report")
	}
	return filename, nil
}

// displayFinalStats logs the final run statistics.
func displayFinalStats(ctx context.Context, rep *Report) {
	var perSecond float64
	if rep.Stats.Duration > 0 {
		perSecond = float64(rep.Stats.CountriesRequested) / rep.Stats.Duration.Seconds()
	}

	logger.Named("report").Info(ctx, "final statistics",
		logger.String("runID", rep.RunID),
		logger.Int("countriesRequested", rep.Stats.CountriesRequested),
		logger.Int("countriesFetched", rep.Stats.CountriesFetched),
		logger.Int("countriesFailed", rep.Stats.CountriesFailed),
		logger.Int("titlesTotal", rep.Verification.TitlesTotal),
		logger.Int("titlesPerCountry", rep.Verification.TitlesPerCountry),
		logger.Int("problems", len(rep.Verification.Problems)),
		logger.Duration("duration", rep.Stats.Duration),
		logger.Float64("countriesPerSecond", perSecond),
	)
}
