// Package model contains domain models passed between layers.
package model

// TournamentRecord is one row of the tournament results table.
// Country fields hold canonical names once the record has been loaded.
type TournamentRecord struct {
	Year     int    // tournament year, e.g. 1970
	Host     string // host country
	Winner   string
	RunnerUp string
	Third    string
	Fourth   string
}

// MatchRecord is one row of the match results table.
type MatchRecord struct {
	Year         int
	Stage        string // e.g. "Group 1", "Final"
	MatchID      string
	HomeTeam     string
	AwayTeam     string
	HomeTeamCode string // short team code, e.g. "BRA"
	AwayTeamCode string
	HomeGoals    int
	AwayGoals    int
}

// Involves reports whether country played this match on either side.
func (m MatchRecord) Involves(country string) bool {
	return m.HomeTeam == country || m.AwayTeam == country
}

// PlayerAppearance is one row of the player appearances table.
type PlayerAppearance struct {
	MatchID     string
	TeamCode    string
	PlayerName  string
	GoalsScored int
}
