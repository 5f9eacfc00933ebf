// Package countryindex derives the country universe and the country to team
// code lookup from match records.
package countryindex

import (
	"sort"

	"github.com/okian/copa/internal/domain/model"
)

// Conflict records a (country, code) pair that disagreed with the code kept
// for that country.
type Conflict struct {
	Country  string `json:"country"`
	Kept     string `json:"kept"`
	Rejected string `json:"rejected"`
}

// Index is immutable after New returns and is safe for concurrent reads.
type Index struct {
	countries []string
	codes     map[string]string
	conflicts []Conflict
}

// New builds an Index from matches. Pairs are visited in row order, home side
// before away side; the first code seen for a country is kept. Empty names
// and empty codes never enter the lookup.
func New(matches []model.MatchRecord) *Index {
	idx := &Index{codes: make(map[string]string)}
	seen := make(map[string]struct{})
	rejected := make(map[Conflict]struct{})

	add := func(name, code string) {
		if name == "" {
			return
		}
		if _, ok := seen[name]; !ok {
			seen[name] = struct{}{}
			idx.countries = append(idx.countries, name)
		}
		if code == "" {
			return
		}
		kept, ok := idx.codes[name]
		switch {
		case !ok:
			idx.codes[name] = code
		case kept != code:
			c := Conflict{Country: name, Kept: kept, Rejected: code}
			if _, dup := rejected[c]; !dup {
				rejected[c] = struct{}{}
				idx.conflicts = append(idx.conflicts, c)
			}
		}
	}

	for _, m := range matches {
		add(m.HomeTeam, m.HomeTeamCode)
		add(m.AwayTeam, m.AwayTeamCode)
	}
	sort.Strings(idx.countries)
	return idx
}

// Countries returns every distinct home or away team name, sorted.
func (i *Index) Countries() []string {
	out := make([]string, len(i.countries))
	copy(out, i.countries)
	return out
}

// Has reports whether country appears as a team in any match.
func (i *Index) Has(country string) bool {
	n := sort.SearchStrings(i.countries, country)
	return n < len(i.countries) && i.countries[n] == country
}

// CodeFor returns the team code for country, or false when the country never
// played a match with a recorded code.
func (i *Index) CodeFor(country string) (string, bool) {
	code, ok := i.codes[country]
	return code, ok
}

// Conflicts returns the rejected codes in the order they were first seen.
func (i *Index) Conflicts() []Conflict {
	out := make([]Conflict, len(i.conflicts))
	copy(out, i.conflicts)
	return out
}

// Len returns the number of distinct countries.
func (i *Index) Len() int { return len(i.countries) }
