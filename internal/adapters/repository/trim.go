package repository

import (
	"strings"

	"github.com/okian/copa/internal/domain/model"
)

// The trim helpers give database rows the same whitespace handling the CSV
// reader applies to every cell.

func trimTournament(t model.TournamentRecord) model.TournamentRecord {
	t.Host = strings.TrimSpace(t.Host)
	t.Winner = strings.TrimSpace(t.Winner)
	t.RunnerUp = strings.TrimSpace(t.RunnerUp)
	t.Third = strings.TrimSpace(t.Third)
	t.Fourth = strings.TrimSpace(t.Fourth)
	return t
}

func trimMatch(m model.MatchRecord) model.MatchRecord {
	m.Stage = strings.TrimSpace(m.Stage)
	m.MatchID = strings.TrimSpace(m.MatchID)
	m.HomeTeam = strings.TrimSpace(m.HomeTeam)
	m.AwayTeam = strings.TrimSpace(m.AwayTeam)
	m.HomeTeamCode = strings.TrimSpace(m.HomeTeamCode)
	m.AwayTeamCode = strings.TrimSpace(m.AwayTeamCode)
	return m
}

func trimPlayer(p model.PlayerAppearance) model.PlayerAppearance {
	p.MatchID = strings.TrimSpace(p.MatchID)
	p.TeamCode = strings.TrimSpace(p.TeamCode)
	p.PlayerName = strings.TrimSpace(p.PlayerName)
	return p
}
