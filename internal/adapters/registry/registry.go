// Package registry stores the surf spots that get ranked.
package registry

import (
	"context"

	"github.com/okian/surfcast/internal/domain/model"
)

// Registry provides read access to the known spots.
type Registry interface {
	// List returns every spot in registry order.
	List(ctx context.Context) ([]model.Spot, error)
	// Get returns one spot or ErrNotFound.
	Get(ctx context.Context, id string) (model.Spot, error)
	// Count returns the number of spots.
	Count(ctx context.Context) int
}

// DefaultSpots returns the built-in Sri Lankan spots.
func DefaultSpots() []model.Spot {
	return []model.Spot{
		{ID: "1", Name: "Arugam Bay", Region: model.RegionEastCoast, Coordinates: model.Coordinates{Lat: 6.843, Lng: 81.829}},
		{ID: "2", Name: "Weligama", Region: model.RegionSouthCoast, Coordinates: model.Coordinates{Lat: 5.972, Lng: 80.426}},
		{ID: "3", Name: "Midigama", Region: model.RegionSouthCoast, Coordinates: model.Coordinates{Lat: 5.961, Lng: 80.383}},
		{ID: "4", Name: "Hiriketiya", Region: model.RegionSouthCoast, Coordinates: model.Coordinates{Lat: 5.976, Lng: 80.686}},
		{ID: "5", Name: "Okanda", Region: model.RegionEastCoast, Coordinates: model.Coordinates{Lat: 6.660, Lng: 81.657}},
	}
}
