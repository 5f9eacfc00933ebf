package report

import (
	"context"
	"sync/atomic"

	"github.com/sourcegraph/conc/pool"

	"github.com/okian/copa/pkg/logger"
)

// fetchCountries queries stats and scorers for every country on a bounded
// worker pool. Per-country failures are recorded in the CountryReport and do
// not stop the run; results keep the order of countries.
func fetchCountries(ctx context.Context, cfg *Config, client *HTTPClient, countries []string, stats *Stats) ([]CountryReport, error) {
	log := logger.Named("report")
	log.Info(ctx, "fetching countries",
		logger.Int("countries", len(countries)),
		logger.Int("workers", cfg.Workers),
	)

	reports := make([]CountryReport, len(countries))
	var fetched, failed int64

	p := pool.New().WithMaxGoroutines(cfg.Workers).WithContext(ctx)
	for i, country := range countries {
		p.Go(func(ctx context.Context) error {
			r := fetchCountry(ctx, client, country, cfg.TopN)
			reports[i] = r
			if r.Error != "" {
				atomic.AddInt64(&failed, 1)
				if cfg.Verbose {
					log.Warn(ctx, "country fetch failed", logger.String("country", country), logger.String("error", r.Error))
				}
				return nil
			}
			n := atomic.AddInt64(&fetched, 1)
			if cfg.Verbose {
				log.Debug(ctx, "country fetched",
					logger.String("country", country),
					logger.Int("done", int(n)),
					logger.Int("total", len(countries)),
				)
			}
			return nil
		})
	}
	err := p.Wait()

	stats.CountriesRequested = len(countries)
	stats.CountriesFetched = int(atomic.LoadInt64(&fetched))
	stats.CountriesFailed = int(atomic.LoadInt64(&failed))

	if err == nil {
		err = ctx.Err()
	}
	log.Info(ctx, "country fetch completed",
		logger.Int("fetched", stats.CountriesFetched),
		logger.Int("failed", stats.CountriesFailed),
	)
	return reports, err
}

func fetchCountry(ctx context.Context, client *HTTPClient, country string, topN int) CountryReport {
	r := CountryReport{Country: country}

	s, err := client.Stats(ctx, country)
	if err != nil {
		r.Error = err.Error()
		return r
	}
	r.Stats = s

	ranking, err := client.TopScorers(ctx, country, topN)
	if err != nil {
		r.Error = err.Error()
		return r
	}
	r.Scorers = ranking
	return r
}
