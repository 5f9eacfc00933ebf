package repository

import (
	"context"
	"encoding/csv"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/okian/copa/internal/domain/model"
)

// Default file names inside a CSV data directory.
const (
	DefaultTournamentsFile = "WorldCups.csv"
	DefaultMatchesFile     = "WorldCupMatches.csv"
	DefaultPlayersFile     = "WorldCupPlayers.csv"
)

// ctxCheckEvery is how many rows are read between context checks.
const ctxCheckEvery = 1024

// Column headers.
const (
	colYear             = "Year"
	colHost             = "Country"
	colWinner           = "Winner"
	colRunnerUp         = "Runners-Up"
	colThird            = "Third"
	colFourth           = "Fourth"
	colStage            = "Stage"
	colMatchID          = "MatchID"
	colHomeTeam         = "Home Team Name"
	colAwayTeam         = "Away Team Name"
	colHomeGoals        = "Home Team Goals"
	colAwayGoals        = "Away Team Goals"
	colHomeCode         = "Home Team Initials"
	colAwayCode         = "Away Team Initials"
	colTeamCode         = "Team Initials"
	colPlayerName       = "Player Name"
	colGoalsScored      = "GoalsScored"
	utf8ByteOrderMarker = "\ufeff"
)

// CSVSource reads the three tables from CSV files in one directory. Columns
// are resolved by header name, so extra columns and any column order are
// accepted.
type CSVSource struct {
	dir             string
	tournamentsFile string
	matchesFile     string
	playersFile     string
}

// CSVOption configures a CSVSource.
type CSVOption func(*CSVSource)

// WithFileNames overrides the default file names. Empty names keep the default.
func WithFileNames(tournaments, matches, players string) CSVOption {
	return func(s *CSVSource) {
		if tournaments != "" {
			s.tournamentsFile = tournaments
		}
		if matches != "" {
			s.matchesFile = matches
		}
		if players != "" {
			s.playersFile = players
		}
	}
}

// NewCSVSource creates a source reading from dir.
func NewCSVSource(dir string, opts ...CSVOption) *CSVSource {
	s := &CSVSource{
		dir:             dir,
		tournamentsFile: DefaultTournamentsFile,
		matchesFile:     DefaultMatchesFile,
		playersFile:     DefaultPlayersFile,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the data directory.
func (s *CSVSource) Name() string { return s.dir }

// Tournaments reads the tournament results file.
func (s *CSVSource) Tournaments(ctx context.Context) ([]model.TournamentRecord, error) {
	var out []model.TournamentRecord
	err := readCSV(ctx, filepath.Join(s.dir, s.tournamentsFile), []string{colWinner, colRunnerUp}, func(r row) error {
		year, err := r.integer(colYear)
		if err != nil {
			return err
		}
		out = append(out, model.TournamentRecord{
			Year:     year,
			Host:     r.str(colHost),
			Winner:   r.str(colWinner),
			RunnerUp: r.str(colRunnerUp),
			Third:    r.str(colThird),
			Fourth:   r.str(colFourth),
		})
		return nil
	})
	return out, err
}

// Matches reads the match results file.
func (s *CSVSource) Matches(ctx context.Context) ([]model.MatchRecord, error) {
	required := []string{colHomeTeam, colAwayTeam, colHomeCode, colAwayCode, colHomeGoals, colAwayGoals}
	var out []model.MatchRecord
	err := readCSV(ctx, filepath.Join(s.dir, s.matchesFile), required, func(r row) error {
		year, err := r.integer(colYear)
		if err != nil {
			return err
		}
		home, err := r.integer(colHomeGoals)
		if err != nil {
			return err
		}
		away, err := r.integer(colAwayGoals)
		if err != nil {
			return err
		}
		out = append(out, model.MatchRecord{
			Year:         year,
			Stage:        r.str(colStage),
			MatchID:      r.id(colMatchID),
			HomeTeam:     r.str(colHomeTeam),
			AwayTeam:     r.str(colAwayTeam),
			HomeTeamCode: r.str(colHomeCode),
			AwayTeamCode: r.str(colAwayCode),
			HomeGoals:    home,
			AwayGoals:    away,
		})
		return nil
	})
	return out, err
}

// Players reads the player appearances file.
func (s *CSVSource) Players(ctx context.Context) ([]model.PlayerAppearance, error) {
	var out []model.PlayerAppearance
	err := readCSV(ctx, filepath.Join(s.dir, s.playersFile), []string{colTeamCode, colPlayerName, colGoalsScored}, func(r row) error {
		goals, err := r.integer(colGoalsScored)
		if err != nil {
			return err
		}
		out = append(out, model.PlayerAppearance{
			MatchID:     r.id(colMatchID),
			TeamCode:    r.str(colTeamCode),
			PlayerName:  r.str(colPlayerName),
			GoalsScored: goals,
		})
		return nil
	})
	return out, err
}

// row is one CSV record with header-based cell access.
type row struct {
	line    int
	columns map[string]int
	cells   []string
}

// str returns the trimmed cell for col, or "" when the column or cell is absent.
func (r row) str(col string) string {
	i, ok := r.columns[col]
	if !ok || i >= len(r.cells) {
		return ""
	}
	return strings.TrimSpace(r.cells[i])
}

// integer parses col. Blank cells read as zero; integral floats such as "1930.0"
// are accepted because spreadsheet exports write them. Values that do not fit
// in an int are ErrInvalidValue.
func (r row) integer(col string) (int, error) {
	v := r.str(col)
	if v == "" {
		return 0, nil
	}
	invalid := func(reason string) error {
		return errors.Mark(errors.Newf("line %d column %q: %q %s", r.line, col, v, reason), ErrInvalidValue)
	}
	n, err := strconv.Atoi(v)
	if err == nil {
		return n, nil
	}
	if errors.Is(err, strconv.ErrRange) {
		return 0, invalid("is out of range")
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f != math.Trunc(f) {
		return 0, invalid("is not an integer")
	}
	// float64(math.MaxInt) rounds up to 2^63, so the upper bound is exclusive.
	if f < math.MinInt || f >= math.MaxInt {
		return 0, invalid("is out of range")
	}
	return int(f), nil
}

// id returns an identifier cell, dropping a ".0" float suffix.
func (r row) id(col string) string {
	return strings.TrimSuffix(r.str(col), ".0")
}

func (r row) blank() bool {
	for _, c := range r.cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// readCSV streams path through fn, skipping fully blank rows.
func readCSV(ctx context.Context, path string, required []string, fn func(row) error) error {
	f, err := os.Open(path) //nolint:gosec // path comes from operator configuration
	if err != nil {
		return errors.Wrap(err, "open")
	}
	defer func() { _ = f.Close() }()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return errors.Newf("%s is empty", filepath.Base(path))
		}
		return errors.Wrap(err, "read header")
	}
	columns := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, utf8ByteOrderMarker))
		if _, dup := columns[h]; !dup {
			columns[h] = i
		}
	}
	for _, col := range required {
		if _, ok := columns[col]; !ok {
			return errors.Mark(errors.Newf("%s: column %q", filepath.Base(path), col), ErrMissingColumn)
		}
	}

	for line := 2; ; line++ {
		if line%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return errors.Wrap(err, "read cancelled")
			}
		}
		cells, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return errors.Wrapf(err, "read line %d", line)
		}
		r := row{line: line, columns: columns, cells: cells}
		if r.blank() {
			continue
		}
		if err := fn(r); err != nil {
			return err
		}
	}
}
