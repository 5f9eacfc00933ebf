package report

import (
	"time"

	"github.com/okian/copa/internal/domain/model"
)

// Config holds configuration for a report run.
type Config struct {
	BaseURL    string        // Base URL of the service
	Countries  []string      // Countries to query; empty means every country the service knows
	TopN       int           // Scorers fetched per country
	Workers    int           // Number of concurrent workers
	Timeout    time.Duration // HTTP request timeout
	OutputFile string        // Output file for the JSON report
	LogFile    string        // Log file for run output
	Verbose    bool          // Enable verbose logging
}

// CountryReport is everything the service returned for one country.
type CountryReport struct {
	Country string              `json:"country"`
	Stats   model.CountryStats  `json:"stats"`
	Scorers model.ScorerRanking `json:"scorers"`
	Error   string              `json:"error,omitempty"`
}

// Verification lists cross-check failures between endpoints.
type Verification struct {
	CountriesChecked int      `json:"countries_checked"`
	TitlesPerCountry int      `json:"titles_per_country"`
	TitlesTotal      int      `json:"titles_total"`
	Problems         []string `json:"problems"`
}

// OK reports whether every check passed.
func (v Verification) OK() bool { return len(v.Problems) == 0 }

// Report is the JSON document written at the end of a run.
type Report struct {
	RunID        string             `json:"run_id"`
	GeneratedAt  time.Time          `json:"generated_at"`
	BaseURL      string             `json:"base_url"`
	Countries    []CountryReport    `json:"countries"`
	Titles       []model.TitleCount `json:"titles"`
	Verification Verification       `json:"verification"`
	Stats        Stats              `json:"stats"`
}

// Stats holds run statistics.
type Stats struct {
	CountriesRequested int           `json:"countries_requested"`
	CountriesFetched   int           `json:"countries_fetched"`
	CountriesFailed    int           `json:"countries_failed"`
	StartTime          time.Time     `json:"start_time"`
	EndTime            time.Time     `json:"end_time"`
	Duration           time.Duration `json:"duration_ns"`
}
