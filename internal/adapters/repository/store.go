// Package repository loads the tournament, match and player tables and holds
// them read-only for the lifetime of the process.
package repository

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/sourcegraph/conc/pool"

	"github.com/okian/copa/internal/domain/model"
	"github.com/okian/copa/internal/domain/normalize"
	"github.com/okian/copa/pkg/logger"
	"github.com/okian/copa/pkg/metrics"
)

// Table names used in errors, logs and metrics.
const (
	TableTournaments = "tournaments"
	TableMatches     = "matches"
	TablePlayers     = "players"
)

// Source yields raw, un-normalized rows for each table in source row order.
type Source interface {
	// Name identifies the source in errors and logs, e.g. a directory or file path.
	Name() string
	Tournaments(ctx context.Context) ([]model.TournamentRecord, error)
	Matches(ctx context.Context) ([]model.MatchRecord, error)
	Players(ctx context.Context) ([]model.PlayerAppearance, error)
}

// Counts reports the number of rows held per table.
type Counts struct {
	Tournaments int `json:"tournaments"`
	Matches     int `json:"matches"`
	Players     int `json:"players"`
}

// Store is the loaded record set. It is never mutated after Load returns and
// may be shared across goroutines without locking.
type Store struct {
	source      string
	tournaments []model.TournamentRecord
	matches     []model.MatchRecord
	players     []model.PlayerAppearance
}

// Load reads all three tables from src concurrently and normalizes country
// names. Any table failure aborts the load with an error marked
// ErrDataUnavailable; no partial Store is returned.
func Load(ctx context.Context, src Source, opts ...Option) (*Store, error) {
	o := newLoadOptions(opts...)
	log := o.logger.Named("repository").With(logger.String("source", src.Name()))
	start := time.Now()

	s := &Store{source: src.Name()}
	p := pool.New().
		WithMaxGoroutines(o.maxConcurrency).
		WithContext(ctx).
		WithCancelOnError().
		WithFirstError()

	p.Go(func(ctx context.Context) error {
		rows, err := src.Tournaments(ctx)
		if err != nil {
			return unavailable(TableTournaments, src.Name(), err)
		}
		changed := normalizeTournaments(rows)
		s.tournaments = rows
		loaded(ctx, log, TableTournaments, len(rows), changed)
		return nil
	})
	p.Go(func(ctx context.Context) error {
		rows, err := src.Matches(ctx)
		if err != nil {
			return unavailable(TableMatches, src.Name(), err)
		}
		changed := normalizeMatches(rows)
		s.matches = rows
		loaded(ctx, log, TableMatches, len(rows), changed)
		return nil
	})
	p.Go(func(ctx context.Context) error {
		rows, err := src.Players(ctx)
		if err != nil {
			return unavailable(TablePlayers, src.Name(), err)
		}
		s.players = rows
		loaded(ctx, log, TablePlayers, len(rows), 0)
		return nil
	})

	if err := p.Wait(); err != nil {
		log.Error(ctx, "record load failed", logger.Error(err))
		return nil, errors.Mark(err, ErrDataUnavailable)
	}

	elapsed := time.Since(start)
	metrics.RecordLoadDuration(float64(elapsed.Microseconds()) / 1000)
	log.Info(ctx, "records loaded",
		logger.Int("tournaments", len(s.tournaments)),
		logger.Int("matches", len(s.matches)),
		logger.Int("players", len(s.players)),
		logger.Duration("elapsed", elapsed),
	)
	return s, nil
}

func unavailable(table, source string, err error) error {
	metrics.RecordLoadError(table)
	return errors.Mark(errors.Wrapf(err, "load %s from %s", table, source), ErrDataUnavailable)
}

func loaded(ctx context.Context, log logger.Logger, table string, rows, changed int) {
	metrics.UpdateRecordsLoaded(table, rows)
	metrics.RecordNamesNormalized(table, changed)
	log.Debug(ctx, "table loaded",
		logger.String("table", table),
		logger.Int("rows", rows),
		logger.Int("names_normalized", changed),
	)
}

// normalizeTournaments rewrites every country column in place and returns
// the number of cells that changed.
func normalizeTournaments(rows []model.TournamentRecord) int {
	changed := 0
	for i := range rows {
		for _, f := range []*string{&rows[i].Host, &rows[i].Winner, &rows[i].RunnerUp, &rows[i].Third, &rows[i].Fourth} {
			changed += rewrite(f)
		}
	}
	return changed
}

// normalizeMatches rewrites team names in place. Team codes are left alone.
func normalizeMatches(rows []model.MatchRecord) int {
	changed := 0
	for i := range rows {
		changed += rewrite(&rows[i].HomeTeam)
		changed += rewrite(&rows[i].AwayTeam)
	}
	return changed
}

func rewrite(name *string) int {
	if !normalize.Changed(*name) {
		return 0
	}
	*name = normalize.Country(*name)
	return 1
}

// SourceName returns the Name of the Source the store was loaded from.
func (s *Store) SourceName() string { return s.source }

// Tournaments returns a copy of the tournament table.
func (s *Store) Tournaments() []model.TournamentRecord {
	out := make([]model.TournamentRecord, len(s.tournaments))
	copy(out, s.tournaments)
	return out
}

// Matches returns a copy of the match table.
func (s *Store) Matches() []model.MatchRecord {
	out := make([]model.MatchRecord, len(s.matches))
	copy(out, s.matches)
	return out
}

// Players returns a copy of the player appearance table.
func (s *Store) Players() []model.PlayerAppearance {
	out := make([]model.PlayerAppearance, len(s.players))
	copy(out, s.players)
	return out
}

// Counts returns the row count of each table.
func (s *Store) Counts() Counts {
	return Counts{
		Tournaments: len(s.tournaments),
		Matches:     len(s.matches),
		Players:     len(s.players),
	}
}
