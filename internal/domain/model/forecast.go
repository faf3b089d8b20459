package model

import (
	"fmt"
	"math"
)

// TideStatus is the observed tide state at a spot.
type TideStatus string

const (
	TideHigh TideStatus = "High"
	TideMid  TideStatus = "Mid"
	TideLow  TideStatus = "Low"
)

// Valid reports whether s is a known tide status.
func (s TideStatus) Valid() bool {
	switch s {
	case TideHigh, TideMid, TideLow:
		return true
	}
	return false
}

// Tide describes the current tide and a free-text hint about the next change.
type Tide struct {
	Status TideStatus `json:"status"`
	Next   string     `json:"next"`
}

// ForecastRecord holds the conditions for one spot at the time of the request.
// Heights are meters, period seconds, speed km/h and direction degrees.
type ForecastRecord struct {
	WaveHeight    float64 `json:"waveHeight"`
	WavePeriod    float64 `json:"wavePeriod"`
	WindSpeed     float64 `json:"windSpeed"`
	WindDirection float64 `json:"windDirection"`
	Tide          Tide    `json:"tide"`
}

// Validate checks that every measurement is finite and within its domain.
func (f ForecastRecord) Validate() error {
	checks := []struct {
		name  string
		value float64
	}{
		{"waveHeight", f.WaveHeight},
		{"wavePeriod", f.WavePeriod},
		{"windSpeed", f.WindSpeed},
		{"windDirection", f.WindDirection},
	}
	for _, c := range checks {
		if math.IsNaN(c.value) || math.IsInf(c.value, 0) || c.value < 0 {
			return fmt.Errorf("%w: %s=%v", ErrMalformedForecast, c.name, c.value)
		}
	}
	if f.WindDirection >= 360 {
		return fmt.Errorf("%w: windDirection=%v outside [0,360)", ErrMalformedForecast, f.WindDirection)
	}
	if !f.Tide.Status.Valid() {
		return fmt.Errorf("%w: tide status %q", ErrMalformedForecast, f.Tide.Status)
	}
	return nil
}
