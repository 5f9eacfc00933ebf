package model

// CountryStats is the per-country summary computed from the loaded tables.
type CountryStats struct {
	Country       string `json:"country"`
	Titles        int    `json:"titles"`
	RunnerUps     int    `json:"runner_ups"`
	MatchesPlayed int    `json:"matches_played"`
	Wins          int    `json:"wins"`
	Draws         int    `json:"draws"`
	Losses        int    `json:"losses"`
	GoalsFor      int    `json:"goals_for"`
	GoalsAgainst  int    `json:"goals_against"`
}

// ScorerStatus tags the outcome of a top-scorer query.
type ScorerStatus string

const (
	// ScorerStatusOK means at least one scorer was found.
	ScorerStatusOK ScorerStatus = "ok"
	// ScorerStatusCodeNotFound means the country has no team code in the match table.
	ScorerStatusCodeNotFound ScorerStatus = "code_not_found"
	// ScorerStatusNoGoalRecords means the team code resolved but no goals were recorded.
	ScorerStatusNoGoalRecords ScorerStatus = "no_goal_records"
)

// Scorer is a single row of a scorer ranking.
type Scorer struct {
	PlayerName string `json:"player_name"`
	Goals      int    `json:"goals"`
}

// ScorerRanking is the ordered list of a country's top scorers.
// Scorers is empty unless Status is ScorerStatusOK.
type ScorerRanking struct {
	Country  string       `json:"country"`
	TeamCode string       `json:"team_code,omitempty"`
	Status   ScorerStatus `json:"status"`
	Scorers  []Scorer     `json:"scorers"`
}

// TitleCount pairs a country with its number of tournament wins.
type TitleCount struct {
	Country string `json:"country"`
	Titles  int    `json:"titles"`
}
