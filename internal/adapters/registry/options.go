package registry

import (
	"github.com/okian/surfcast/internal/domain/model"
	"github.com/okian/surfcast/pkg/logger"
)

// Option applies a configuration option to the SQLiteRegistry.
type Option func(*SQLiteRegistry)

// WithSeed sets the spots inserted when the database is first provisioned.
func WithSeed(spots []model.Spot) Option {
	return func(r *SQLiteRegistry) {
		r.seed = spots
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(r *SQLiteRegistry) {
		if l != nil {
			r.logger = l
		}
	}
}
