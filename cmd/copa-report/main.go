package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/okian/copa/internal/report"
	"github.com/okian/copa/pkg/logger"
)

// Default configuration constants.
const (
	defaultTopN       = 10
	defaultWorkers    = 2 // multiplier for runtime.NumCPU()
	defaultTimeout    = 30 * time.Second
	defaultRunTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL    = flag.String("url", "http://localhost:9080", "Base URL of the service")
		countries  = flag.String("countries", "", "Comma separated countries to query (default: every country)")
		topN       = flag.Int("top", defaultTopN, "Number of top scorers to fetch per country")
		workers    = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout    = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		outputFile = flag.String("output", "", "Output file for the report (default: copa_report_TIMESTAMP.json)")
		logFile    = flag.String("log", "", "Log file for run output (default: copa_report_TIMESTAMP.log)")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		report.ShowHelp()
		return
	}

	closer, err := report.SetupLogging(*logFile, *verbose)
	if err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = closer.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	cfg := &report.Config{
		BaseURL:    *baseURL,
		Countries:  splitCountries(*countries),
		TopN:       *topN,
		Workers:    max(*workers, 1),
		Timeout:    *timeout,
		OutputFile: *outputFile,
		LogFile:    *logFile,
		Verbose:    *verbose,
	}

	if _, err := report.Run(ctx, cfg); err != nil {
		log := logger.Named("main")
		if errors.Is(err, report.ErrVerification) {
			log.Error(ctx, "report written with verification problems", logger.Error(err))
		} else {
			log.Error(ctx, "report failed", logger.Error(err))
		}
		_ = closer.Close()
		os.Exit(1)
	}
}

// splitCountries parses the -countries flag, dropping blanks.
func splitCountries(raw string) []string {
	var out []string
	for _, c := range strings.Split(raw, ",") {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}
