package model

import "errors"

// Sentinel kinds for recoverable, per-query outcomes.
var (
	ErrCountryCodeNotFound = errors.New("country code not found")
	ErrNoGoalRecords       = errors.New("no goal records for country")
)

// Err returns the sentinel matching r.Status, or nil for a populated ranking.
func (r ScorerRanking) Err() error {
	switch r.Status {
	case ScorerStatusCodeNotFound:
		return ErrCountryCodeNotFound
	case ScorerStatusNoGoalRecords:
		return ErrNoGoalRecords
	default:
		return nil
	}
}
