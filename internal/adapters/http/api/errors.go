package api

import "github.com/cockroachdb/errors"

// Sentinel kinds for API errors.
var (
	ErrBadRequest = errors.New("bad request")
)

func badRequest(format string, args ...interface{}) error {
	return errors.Mark(errors.Newf(format, args...), ErrBadRequest)
}
