// Package service provides the query context that implements the
// dependencies required by the HTTP API.
package service

import (
	"context"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/okian/copa/internal/adapters/repository"
	"github.com/okian/copa/internal/domain/aggregate"
	"github.com/okian/copa/internal/domain/countryindex"
	"github.com/okian/copa/internal/domain/model"
	"github.com/okian/copa/internal/domain/normalize"
	"github.com/okian/copa/internal/domain/titles"
	"github.com/okian/copa/pkg/logger"
	"github.com/okian/copa/pkg/metrics"
)

// Query kinds used as metric labels.
const (
	kindCountries = "countries"
	kindStats     = "stats"
	kindScorers   = "scorers"
	kindTitles    = "titles"
	kindMapTitles = "map_titles"
)

// snapshot is everything derived from one load. It is built once in Start
// and only read afterwards.
type snapshot struct {
	store      *repository.Store
	index      *countryindex.Index
	aggregator *aggregate.Aggregator
	titles     []model.TitleCount
	mapTitles  []model.TitleCount
	loadedAt   time.Time
}

// Service answers statistic queries over records loaded once at startup.
type Service struct {
	mu sync.Mutex

	source             repository.Source
	sourceName         string
	defaultScorerLimit int
	loadConcurrency    int

	current atomic.Pointer[snapshot]

	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		defaultScorerLimit: aggregate.DefaultScorerLimit,
		loadConcurrency:    3,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.source != nil {
		s.sourceName = s.source.Name()
	}
	return s
}

// Start loads the records and builds the country index and aggregators.
// A load failure is marked repository.ErrDataUnavailable and leaves the
// service unstarted. Calling Start on a started service is a no-op.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current.Load() != nil {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	if s.source == nil {
		return errors.Mark(errors.New("no record source configured"), repository.ErrDataUnavailable)
	}

	s.logger.Info(ctx, "starting statistics service...", logger.String("source", s.source.Name()))

	store, err := repository.Load(ctx, s.source,
		repository.WithLogger(s.logger),
		repository.WithMaxConcurrency(s.loadConcurrency),
	)
	if err != nil {
		return err
	}

	matches := store.Matches()
	tournaments := store.Tournaments()
	index := countryindex.New(matches)
	counts := titles.Counts(tournaments)

	snap := &snapshot{
		store:      store,
		index:      index,
		aggregator: aggregate.New(tournaments, matches, store.Players(), index, aggregate.WithDefaultLimit(s.defaultScorerLimit)),
		titles:     titles.Ranked(counts),
		mapTitles:  titles.Ranked(titles.ForMap(counts)),
		loadedAt:   time.Now(),
	}

	for _, c := range index.Conflicts() {
		s.logger.Warn(ctx, "conflicting team code ignored",
			logger.String("country", c.Country),
			logger.String("kept", c.Kept),
			logger.String("rejected", c.Rejected),
		)
	}
	metrics.UpdateCountries(index.Len())
	metrics.UpdateCodeConflicts(len(index.Conflicts()))

	s.current.Store(snap)
	s.logger.Info(ctx, "statistics service started",
		logger.Int("countries", index.Len()),
		logger.Int("codeConflicts", len(index.Conflicts())),
		logger.Int("titleHolders", len(counts)),
	)
	return nil
}

// Stop drops the loaded records; queries fail with ErrNotStarted afterwards.
// A source that implements io.Closer is closed and released, so a later Start
// fails with ErrDataUnavailable. Other sources can be started again.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current.Swap(nil) == nil {
		return
	}
	if closer, ok := s.source.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			s.logger.Warn(context.Background(), "closing record source failed", logger.Error(err))
		}
		// A closed source cannot be reloaded; Start reports it missing.
		s.source = nil
	}
	s.logger.Info(context.Background(), "statistics service stopped")
}

func (s *Service) snapshot() (*snapshot, error) {
	snap := s.current.Load()
	if snap == nil {
		return nil, ErrNotStarted
	}
	return snap, nil
}

func observe(kind, outcome string, start time.Time) {
	metrics.RecordQuery(kind, outcome)
	metrics.RecordQueryLatency(kind, float64(time.Since(start).Microseconds())/1000)
}

// Countries returns every country that appears in the match table, sorted.
func (s *Service) Countries(_ context.Context) ([]string, error) {
	start := time.Now()
	snap, err := s.snapshot()
	if err != nil {
		metrics.RecordQuery(kindCountries, "not_started")
		return nil, err
	}
	defer observe(kindCountries, "ok", start)
	return snap.index.Countries(), nil
}

// Stats returns the summary for country. Countries that never played get
// zero match figures and whatever titles the tournament table gives them.
func (s *Service) Stats(ctx context.Context, country string) (model.CountryStats, error) {
	start := time.Now()
	snap, err := s.snapshot()
	if err != nil {
		metrics.RecordQuery(kindStats, "not_started")
		return model.CountryStats{}, err
	}

	outcome := "ok"
	if !snap.index.Has(country) {
		outcome = "unknown_country"
		s.logger.Debug(ctx, "stats for country without matches", logger.String("country", country))
	}
	defer observe(kindStats, outcome, start)
	return snap.aggregator.StatsFor(country), nil
}

// TopScorers returns the scorer ranking for country. A non-positive limit
// uses the configured default. Missing codes and goal records are reported
// through the ranking's Status, not as errors.
func (s *Service) TopScorers(ctx context.Context, country string, limit int) (model.ScorerRanking, error) {
	start := time.Now()
	snap, err := s.snapshot()
	if err != nil {
		metrics.RecordQuery(kindScorers, "not_started")
		return model.ScorerRanking{}, err
	}

	ranking := snap.aggregator.TopScorers(country, limit)
	if ranking.Status != model.ScorerStatusOK {
		s.logger.Debug(ctx, "no scorers for country",
			logger.String("country", country),
			logger.String("status", string(ranking.Status)),
		)
	}
	observe(kindScorers, string(ranking.Status), start)
	return ranking, nil
}

// Titles returns tournament wins per country, most titles first.
func (s *Service) Titles(_ context.Context) ([]model.TitleCount, error) {
	start := time.Now()
	snap, err := s.snapshot()
	if err != nil {
		metrics.RecordQuery(kindTitles, "not_started")
		return nil, err
	}
	defer observe(kindTitles, "ok", start)
	return append([]model.TitleCount(nil), snap.titles...), nil
}

// MapTitles returns the title counts keyed by the names a world map uses.
func (s *Service) MapTitles(_ context.Context) ([]model.TitleCount, error) {
	start := time.Now()
	snap, err := s.snapshot()
	if err != nil {
		metrics.RecordQuery(kindMapTitles, "not_started")
		return nil, err
	}
	defer observe(kindMapTitles, "ok", start)
	return append([]model.TitleCount(nil), snap.mapTitles...), nil
}

// Normalization returns the historical country name table applied on load.
func (s *Service) Normalization() map[string]string {
	return normalize.Mapping()
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	snap := s.current.Load()
	stats := map[string]interface{}{
		"started":            snap != nil,
		"defaultScorerLimit": s.defaultScorerLimit,
	}
	if s.sourceName != "" {
		stats["source"] = s.sourceName
	}
	if snap == nil {
		return stats
	}

	conflicts := snap.index.Conflicts()
	stats["records"] = snap.store.Counts()
	stats["countries"] = snap.index.Len()
	stats["codeConflicts"] = len(conflicts)
	stats["conflicts"] = conflicts
	stats["loadedAt"] = snap.loadedAt.UTC().Format(time.RFC3339)
	return stats
}
