package forecast

import "errors"

// Sentinel kinds for forecast errors.
var (
	// ErrUnavailable marks a ranking cycle that cannot get a complete, valid snapshot.
	ErrUnavailable    = errors.New("forecast unavailable")
	ErrIncomplete     = errors.New("forecast snapshot incomplete")
	ErrUpstream       = errors.New("forecast upstream error")
	ErrRateLimited    = errors.New("forecast upstream rate limited")
	ErrCircuitOpen    = errors.New("forecast circuit breaker open")
	ErrCommandFailed  = errors.New("forecast command failed")
	ErrInvalidBackoff = errors.New("invalid backoff configuration")
)
