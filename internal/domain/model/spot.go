// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"strings"
)

// Region is the coast a spot belongs to. It decides both the offshore wind
// window and the surf season.
type Region string

const (
	RegionEastCoast  Region = "East Coast"
	RegionSouthCoast Region = "South Coast"
)

// Valid reports whether r is a supported region.
func (r Region) Valid() bool {
	return r == RegionEastCoast || r == RegionSouthCoast
}

// ParseRegion resolves a region name case-insensitively.
func ParseRegion(s string) (Region, error) {
	for _, r := range []Region{RegionEastCoast, RegionSouthCoast} {
		if strings.EqualFold(strings.TrimSpace(s), string(r)) {
			return r, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRegion, s)
}

// Coordinates locate a spot in decimal degrees.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Spot is a named surf location. Spots are reference data and never change
// during a ranking cycle.
type Spot struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Region      Region      `json:"region"`
	Coordinates Coordinates `json:"coordinates"`
}

// SpotForecast pairs a spot with the forecast observed for it.
type SpotForecast struct {
	Spot     Spot
	Forecast ForecastRecord
}

// RankedSpot is a spot decorated with its forecast and suitability score.
// It is built fresh for every ranking request.
type RankedSpot struct {
	Spot
	Forecast    ForecastRecord `json:"forecast"`
	Suitability int            `json:"suitability"`
}
