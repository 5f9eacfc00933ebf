// Package aggregate computes per-country statistics and scorer rankings over
// the loaded record tables.
package aggregate

import (
	"sort"

	"github.com/okian/copa/internal/domain/model"
)

// DefaultScorerLimit is used when TopScorers receives a non-positive limit.
const DefaultScorerLimit = 10

// CodeResolver maps a country to its team code.
type CodeResolver interface {
	CodeFor(country string) (string, bool)
}

// Aggregator answers statistic queries. It never mutates the slices it was
// built with, so one Aggregator can serve concurrent callers.
type Aggregator struct {
	tournaments  []model.TournamentRecord
	matches      []model.MatchRecord
	players      []model.PlayerAppearance
	codes        CodeResolver
	defaultLimit int
}

// Option applies a configuration option to the Aggregator.
type Option func(*Aggregator)

// WithDefaultLimit overrides DefaultScorerLimit.
func WithDefaultLimit(limit int) Option {
	return func(a *Aggregator) {
		if limit > 0 {
			a.defaultLimit = limit
		}
	}
}

// New creates an Aggregator over already-normalized tables.
func New(tournaments []model.TournamentRecord, matches []model.MatchRecord, players []model.PlayerAppearance, codes CodeResolver, opts ...Option) *Aggregator {
	a := &Aggregator{
		tournaments:  tournaments,
		matches:      matches,
		players:      players,
		codes:        codes,
		defaultLimit: DefaultScorerLimit,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// outcome classifies a match from country's point of view. The home role is
// checked first so a malformed row naming the country twice counts once.
type outcome int

const (
	notPlayed outcome = iota
	won
	drew
	lost
)

func result(m model.MatchRecord, country string) (o outcome, goalsFor, goalsAgainst int) {
	switch country {
	case m.HomeTeam:
		goalsFor, goalsAgainst = m.HomeGoals, m.AwayGoals
	case m.AwayTeam:
		goalsFor, goalsAgainst = m.AwayGoals, m.HomeGoals
	default:
		return notPlayed, 0, 0
	}
	switch {
	case goalsFor > goalsAgainst:
		return won, goalsFor, goalsAgainst
	case goalsFor == goalsAgainst:
		return drew, goalsFor, goalsAgainst
	default:
		return lost, goalsFor, goalsAgainst
	}
}

func count[T any](rows []T, keep func(T) bool) int {
	n := 0
	for _, r := range rows {
		if keep(r) {
			n++
		}
	}
	return n
}

// StatsFor returns the summary for country. A country that never played
// yields zero match figures; titles and runner-ups still come from the
// tournament table alone.
func (a *Aggregator) StatsFor(country string) model.CountryStats {
	s := model.CountryStats{
		Country: country,
		Titles: count(a.tournaments, func(t model.TournamentRecord) bool {
			return t.Winner == country
		}),
		RunnerUps: count(a.tournaments, func(t model.TournamentRecord) bool {
			return t.RunnerUp == country
		}),
		MatchesPlayed: count(a.matches, func(m model.MatchRecord) bool {
			return m.Involves(country)
		}),
		Wins:   a.countOutcome(country, won),
		Draws:  a.countOutcome(country, drew),
		Losses: a.countOutcome(country, lost),
	}
	for _, m := range a.matches {
		if o, gf, ga := result(m, country); o != notPlayed {
			s.GoalsFor += gf
			s.GoalsAgainst += ga
		}
	}
	return s
}

func (a *Aggregator) countOutcome(country string, want outcome) int {
	return count(a.matches, func(m model.MatchRecord) bool {
		o, _, _ := result(m, country)
		return o == want
	})
}

// TopScorers ranks the players of country's team by total goals, descending,
// ties broken by player name. A non-positive limit selects the default.
// The missing-code and no-goals cases are reported through the Status field.
func (a *Aggregator) TopScorers(country string, limit int) model.ScorerRanking {
	if limit <= 0 {
		limit = a.defaultLimit
	}
	ranking := model.ScorerRanking{Country: country, Scorers: []model.Scorer{}}

	code, ok := a.codes.CodeFor(country)
	if !ok {
		ranking.Status = model.ScorerStatusCodeNotFound
		return ranking
	}
	ranking.TeamCode = code

	totals := make(map[string]int)
	for _, p := range a.players {
		if p.TeamCode == code && p.GoalsScored > 0 {
			totals[p.PlayerName] += p.GoalsScored
		}
	}
	if len(totals) == 0 {
		ranking.Status = model.ScorerStatusNoGoalRecords
		return ranking
	}

	scorers := make([]model.Scorer, 0, len(totals))
	for name, goals := range totals {
		scorers = append(scorers, model.Scorer{PlayerName: name, Goals: goals})
	}
	sort.Slice(scorers, func(i, j int) bool {
		if scorers[i].Goals != scorers[j].Goals {
			return scorers[i].Goals > scorers[j].Goals
		}
		return scorers[i].PlayerName < scorers[j].PlayerName
	})
	if len(scorers) > limit {
		scorers = scorers[:limit]
	}

	ranking.Status = model.ScorerStatusOK
	ranking.Scorers = scorers
	return ranking
}
