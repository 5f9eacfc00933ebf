package report

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/okian/copa/pkg/logger"
)

// logFilePermission restricts report logs to the current user.
const logFilePermission = 0600

// SetupLogging configures logging to both console and file. If logFile is
// empty, a timestamped filename is generated. The returned closer flushes
// and closes the file.
func SetupLogging(logFile string, verbose bool) (io.Closer, error) {
	if logFile == "" {
		logFile = "copa_report_" + time.Now().Format("20060102_150405") + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission) //nolint:gosec // operator-supplied path
	if err != nil {
		return nil, errors.Wrap(err, "failed to create log file")
	}

	if err := logger.Init(logger.WithWriter(io.MultiWriter(os.Stdout, file))); err != nil {
		_ = file.Close()
		return nil, errors.Wrap(err, "failed to initialize logger")
	}
	if verbose {
		_ = logger.SetLevelString("debug")
	}
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return file, nil
}

// ShowHelp prints usage information for the report tool.
func ShowHelp() {
	_, _ = os.Stdout.WriteString(`copa report
===========

Queries a running copa service for every country concurrently, writes a JSON
report and cross-checks per-country titles against the global title ranking.

Usage:
  go run ./cmd/copa-report [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -countries string
        Comma separated countries to query (default: every country)
  -top int
        Number of top scorers to fetch per country (default 10)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 30s)
  -output string
        Output file for the report (default: copa_report_TIMESTAMP.json)
  -log string
        Log file for run output (default: copa_report_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Report on every country
  go run ./cmd/copa-report

  # Two countries, top 3 scorers each
  go run ./cmd/copa-report -countries "Brazil,Germany" -top 3

  # Another host with more workers
  go run ./cmd/copa-report -url http://stats.internal:8080 -workers 16
`)
}
