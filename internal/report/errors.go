package report

import "github.com/cockroachdb/errors"

// Sentinel kinds for report errors.
var (
	// ErrUnhealthy means the service did not answer its health check.
	ErrUnhealthy = errors.New("service unhealthy")
	// ErrUnexpectedStatus means an endpoint answered with a non-200 status.
	ErrUnexpectedStatus = errors.New("unexpected status")
	// ErrVerification means the cross-endpoint checks found inconsistencies.
	ErrVerification = errors.New("verification failed")
)
