// Package normalize maps historical country names to their present-day equivalents.
package normalize

// historical maps retired country names to the names used for aggregation.
var historical = map[string]string{ //nolint:gochecknoglobals // fixed lookup table
	"Soviet Union":   "Russia",
	"Czechoslovakia": "Czech Republic",
	"Germany FR":     "Germany",
	"German DR":      "Germany",
	"Zaire":          "DR Congo",
}

// Country returns the canonical name for name, or name unchanged when no
// mapping exists. Matching is exact.
func Country(name string) string {
	if canonical, ok := historical[name]; ok {
		return canonical
	}
	return name
}

// Changed reports whether Country would rewrite name.
func Changed(name string) bool {
	_, ok := historical[name]
	return ok
}

// Mapping returns a copy of the historical name table.
func Mapping() map[string]string {
	out := make(map[string]string, len(historical))
	for k, v := range historical {
		out[k] = v
	}
	return out
}
