package repository

import "github.com/cockroachdb/errors"

// Sentinel kinds for record store errors. Match them with errors.Is from
// github.com/cockroachdb/errors, which understands marks.
var (
	// ErrDataUnavailable means a required table is missing or unparseable.
	ErrDataUnavailable = errors.New("data unavailable")
	// ErrMissingColumn means a table lacks a required column.
	ErrMissingColumn = errors.New("missing column")
	// ErrInvalidValue means a cell could not be parsed.
	ErrInvalidValue = errors.New("invalid value")
)
