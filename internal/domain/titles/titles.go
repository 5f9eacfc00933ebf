// Package titles counts tournament wins per country and prepares the
// renaming needed by map services.
package titles

import (
	"sort"

	"github.com/okian/copa/internal/domain/model"
)

// mapNames renames countries to the labels map services resolve to ISO codes.
// It is only ever applied to rendering copies.
var mapNames = map[string]string{ //nolint:gochecknoglobals // fixed lookup table
	"England": "United Kingdom",
	"USA":     "United States",
}

// Counts returns winner frequencies across tournaments. Tournaments without a
// recorded winner are skipped.
func Counts(tournaments []model.TournamentRecord) map[string]int {
	out := make(map[string]int)
	for _, t := range tournaments {
		if t.Winner == "" {
			continue
		}
		out[t.Winner]++
	}
	return out
}

// MapName returns the map-service label for country.
func MapName(country string) string {
	if name, ok := mapNames[country]; ok {
		return name
	}
	return country
}

// ForMap returns a new map with map-service labels as keys. Counts that land
// on the same label are summed. counts is not modified.
func ForMap(counts map[string]int) map[string]int {
	out := make(map[string]int, len(counts))
	for country, n := range counts {
		out[MapName(country)] += n
	}
	return out
}

// Ranked orders counts by titles descending, then country name.
func Ranked(counts map[string]int) []model.TitleCount {
	out := make([]model.TitleCount, 0, len(counts))
	for country, n := range counts {
		out = append(out, model.TitleCount{Country: country, Titles: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Titles != out[j].Titles {
			return out[i].Titles > out[j].Titles
		}
		return out[i].Country < out[j].Country
	})
	return out
}
