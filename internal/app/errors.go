package service

import "github.com/cockroachdb/errors"

// ErrNotStarted is returned by queries issued before Start has loaded the records.
var ErrNotStarted = errors.New("service not started")
