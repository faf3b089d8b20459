package registry

import (
	"context"
	"fmt"

	"github.com/okian/surfcast/internal/domain/model"
)

// StaticRegistry serves a fixed, in-memory list of spots.
type StaticRegistry struct {
	spots []model.Spot
	byID  map[string]int
}

// NewStaticRegistry validates spots and returns a registry over a copy of them.
func NewStaticRegistry(spots []model.Spot) (*StaticRegistry, error) {
	r := &StaticRegistry{
		spots: make([]model.Spot, 0, len(spots)),
		byID:  make(map[string]int, len(spots)),
	}
	for _, sp := range spots {
		if err := validateSpot(sp); err != nil {
			return nil, err
		}
		if _, dup := r.byID[sp.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %q", ErrInvalidSpot, sp.ID)
		}
		r.byID[sp.ID] = len(r.spots)
		r.spots = append(r.spots, sp)
	}
	return r, nil
}

// MustNewStaticRegistry is NewStaticRegistry for spot lists fixed at compile
// time. It panics when the list is invalid.
func MustNewStaticRegistry(spots []model.Spot) *StaticRegistry {
	r, err := NewStaticRegistry(spots)
	if err != nil {
		panic(fmt.Sprintf("registry: %v", err))
	}
	return r
}

// List implements Registry.
func (r *StaticRegistry) List(_ context.Context) ([]model.Spot, error) {
	return append([]model.Spot(nil), r.spots...), nil
}

// Get implements Registry.
func (r *StaticRegistry) Get(_ context.Context, id string) (model.Spot, error) {
	i, ok := r.byID[id]
	if !ok {
		return model.Spot{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return r.spots[i], nil
}

// Count implements Registry.
func (r *StaticRegistry) Count(_ context.Context) int {
	return len(r.spots)
}

func validateSpot(sp model.Spot) error {
	if sp.ID == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidSpot)
	}
	if !sp.Region.Valid() {
		return fmt.Errorf("%w: spot %s: %w", ErrInvalidSpot, sp.ID, model.ErrUnknownRegion)
	}
	if sp.Coordinates.Lat < -90 || sp.Coordinates.Lat > 90 || sp.Coordinates.Lng < -180 || sp.Coordinates.Lng > 180 {
		return fmt.Errorf("%w: spot %s: coordinates out of range", ErrInvalidSpot, sp.ID)
	}
	return nil
}
