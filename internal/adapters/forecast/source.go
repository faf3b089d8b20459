// Package forecast supplies per-spot forecast snapshots to the ranking core.
//
// Every Source hands back one complete Snapshot or an error. Partial results
// never leave this package.
package forecast

import (
	"context"
	"fmt"

	"github.com/okian/surfcast/internal/domain/model"
)

// Source returns a forecast for every requested spot.
type Source interface {
	Name() string
	FetchAll(ctx context.Context, spots []model.Spot) (Snapshot, error)
}

// SpotFetcher fetches the forecast of a single spot. Pool fans it out.
type SpotFetcher interface {
	Name() string
	FetchSpot(ctx context.Context, spot model.Spot) (model.ForecastRecord, error)
}

// Snapshot maps spot id to its forecast.
type Snapshot map[string]model.ForecastRecord

// Covers reports whether s holds a record for every spot.
func (s Snapshot) Covers(spots []model.Spot) bool {
	for _, sp := range spots {
		if _, ok := s[sp.ID]; !ok {
			return false
		}
	}
	return true
}

// Pairs joins spots with their forecasts in spot order. It fails if any spot
// is missing or carries a malformed record.
func (s Snapshot) Pairs(spots []model.Spot) ([]model.SpotForecast, error) {
	out := make([]model.SpotForecast, 0, len(spots))
	for _, sp := range spots {
		rec, ok := s[sp.ID]
		if !ok {
			return nil, fmt.Errorf("%w: no forecast for spot %s", ErrIncomplete, sp.ID)
		}
		if err := rec.Validate(); err != nil {
			return nil, fmt.Errorf("spot %s: %w", sp.ID, err)
		}
		out = append(out, model.SpotForecast{Spot: sp, Forecast: rec})
	}
	return out, nil
}

func (s Snapshot) clone() Snapshot {
	out := make(Snapshot, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}
