package probe

import "errors"

// Sentinel errors reported by a probe run.
var (
	ErrUnhealthy        = errors.New("service unhealthy")
	ErrUnexpectedStatus = errors.New("unexpected status")
	ErrViolation        = errors.New("ranking check failed")
)
