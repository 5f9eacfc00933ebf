package config

import "github.com/cockroachdb/errors"

// Sentinel error kinds for this package. Match them with errors.Is from
// github.com/cockroachdb/errors.
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrLoadConfig    = errors.New("load config failed")
)
