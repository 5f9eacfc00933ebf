package report

import (
	"fmt"

	"github.com/okian/copa/internal/domain/model"
)

// verifyResults cross-checks per-country answers against the global title
// ranking and checks every scorer list is well ordered.
func verifyResults(cfg *Config, countries []CountryReport, titles []model.TitleCount) Verification {
	v := Verification{Problems: []string{}}

	byCountry := make(map[string]int, len(titles))
	for _, t := range titles {
		byCountry[t.Country] = t.Titles
		v.TitlesTotal += t.Titles
	}

	for _, c := range countries {
		if c.Error != "" {
			continue
		}
		v.CountriesChecked++
		v.TitlesPerCountry += c.Stats.Titles

		if want := byCountry[c.Country]; c.Stats.Titles != want {
			v.Problems = append(v.Problems, fmt.Sprintf("%s: stats report %d titles, title ranking has %d", c.Country, c.Stats.Titles, want))
		}
		if c.Stats.Wins+c.Stats.Draws+c.Stats.Losses != c.Stats.MatchesPlayed {
			v.Problems = append(v.Problems, fmt.Sprintf("%s: wins, draws and losses do not add up to %d matches", c.Country, c.Stats.MatchesPlayed))
		}
		if problem := checkScorers(c.Country, c.Scorers, cfg.TopN); problem != "" {
			v.Problems = append(v.Problems, problem)
		}
	}
	return v
}

// checkScorers returns a description of the first ordering problem, or "".
func checkScorers(country string, r model.ScorerRanking, limit int) string {
	if r.Status != model.ScorerStatusOK {
		if len(r.Scorers) != 0 {
			return fmt.Sprintf("%s: status %s but %d scorers", country, r.Status, len(r.Scorers))
		}
		return ""
	}
	if len(r.Scorers) == 0 {
		return fmt.Sprintf("%s: status ok but no scorers", country)
	}
	if limit > 0 && len(r.Scorers) > limit {
		return fmt.Sprintf("%s: %d scorers exceed limit %d", country, len(r.Scorers), limit)
	}
	for i := 1; i < len(r.Scorers); i++ {
		prev, cur := r.Scorers[i-1], r.Scorers[i]
		if cur.Goals > prev.Goals || (cur.Goals == prev.Goals && cur.PlayerName < prev.PlayerName) {
			return fmt.Sprintf("%s: scorers not ordered at position %d", country, i)
		}
	}
	return ""
}
