package model

import "errors"

var (
	// ErrInvalidPreferences indicates an unknown skill level, tide preference or board type.
	ErrInvalidPreferences = errors.New("invalid preferences")
	// ErrUnknownRegion indicates a region outside the supported coasts.
	ErrUnknownRegion = errors.New("unknown region")
	// ErrMalformedForecast indicates a forecast record with out-of-range or non-finite values.
	ErrMalformedForecast = errors.New("malformed forecast")
)
