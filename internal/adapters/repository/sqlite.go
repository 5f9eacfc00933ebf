package repository

import (
	"context"
	"database/sql"
	"net/url"
	"path/filepath"

	"github.com/cockroachdb/errors"
	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/okian/copa/internal/domain/model"
)

// SQL queries. Rows are read in rowid order so that "first occurrence"
// means the same thing as it does for CSV input.
const (
	queryTournaments = `SELECT COALESCE(year, 0), COALESCE(host, ''), COALESCE(winner, ''),
		COALESCE(runner_up, ''), COALESCE(third, ''), COALESCE(fourth, '')
		FROM world_cups ORDER BY rowid`
	queryMatches = `SELECT COALESCE(year, 0), COALESCE(stage, ''), COALESCE(CAST(match_id AS TEXT), ''),
		COALESCE(home_team, ''), COALESCE(away_team, ''),
		COALESCE(home_team_code, ''), COALESCE(away_team_code, ''),
		COALESCE(home_goals, 0), COALESCE(away_goals, 0)
		FROM matches ORDER BY rowid`
	queryPlayers = `SELECT COALESCE(CAST(match_id AS TEXT), ''), COALESCE(team_code, ''),
		COALESCE(player_name, ''), COALESCE(goals_scored, 0)
		FROM players ORDER BY rowid`
)

// SQLiteSource reads the three tables from a SQLite database file opened
// read-only. Expected tables: world_cups, matches, players.
type SQLiteSource struct {
	path string
	db   *sql.DB
}

// NewSQLiteSource opens path read-only. The file must already exist; failures
// are marked ErrDataUnavailable.
func NewSQLiteSource(path string) (*SQLiteSource, error) {
	dsn, err := readOnlyDSN(path)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "open sqlite %s", path), ErrDataUnavailable)
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "open sqlite %s", path), ErrDataUnavailable)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, errors.Mark(errors.Wrapf(err, "open sqlite %s", path), ErrDataUnavailable)
	}
	return &SQLiteSource{path: path, db: db}, nil
}

// readOnlyDSN builds a read-only SQLite URI for path. The path is made absolute
// and percent-encoded so '?', '#' and '%' in file names stay part of the name.
func readOnlyDSN(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Wrap(err, "resolve path")
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs), RawQuery: "mode=ro"}
	return u.String(), nil
}

// Name returns the database path.
func (s *SQLiteSource) Name() string { return s.path }

// Close releases the database handle.
func (s *SQLiteSource) Close() error { return s.db.Close() }

// Tournaments reads the world_cups table.
func (s *SQLiteSource) Tournaments(ctx context.Context) ([]model.TournamentRecord, error) {
	var out []model.TournamentRecord
	err := s.query(ctx, queryTournaments, func(rows *sql.Rows) error {
		var t model.TournamentRecord
		if err := rows.Scan(&t.Year, &t.Host, &t.Winner, &t.RunnerUp, &t.Third, &t.Fourth); err != nil {
			return err
		}
		out = append(out, trimTournament(t))
		return nil
	})
	return out, err
}

// Matches reads the matches table.
func (s *SQLiteSource) Matches(ctx context.Context) ([]model.MatchRecord, error) {
	var out []model.MatchRecord
	err := s.query(ctx, queryMatches, func(rows *sql.Rows) error {
		var m model.MatchRecord
		if err := rows.Scan(&m.Year, &m.Stage, &m.MatchID, &m.HomeTeam, &m.AwayTeam,
			&m.HomeTeamCode, &m.AwayTeamCode, &m.HomeGoals, &m.AwayGoals); err != nil {
			return err
		}
		out = append(out, trimMatch(m))
		return nil
	})
	return out, err
}

// Players reads the players table.
func (s *SQLiteSource) Players(ctx context.Context) ([]model.PlayerAppearance, error) {
	var out []model.PlayerAppearance
	err := s.query(ctx, queryPlayers, func(rows *sql.Rows) error {
		var p model.PlayerAppearance
		if err := rows.Scan(&p.MatchID, &p.TeamCode, &p.PlayerName, &p.GoalsScored); err != nil {
			return err
		}
		out = append(out, trimPlayer(p))
		return nil
	})
	return out, err
}

func (s *SQLiteSource) query(ctx context.Context, q string, scan func(*sql.Rows) error) error {
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return errors.Wrap(err, "query")
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return errors.Mark(errors.Wrap(err, "scan"), ErrInvalidValue)
		}
	}
	return errors.Wrap(rows.Err(), "iterate")
}
