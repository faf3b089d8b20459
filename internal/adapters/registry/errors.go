package registry

import "errors"

// Sentinel kinds for registry errors.
var (
	ErrNotFound    = errors.New("spot not found")
	ErrInvalidSpot = errors.New("invalid spot")
)
