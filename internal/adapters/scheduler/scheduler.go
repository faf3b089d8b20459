// Package scheduler refreshes forecast snapshots in the background.
package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/okian/surfcast/internal/domain/model"
	"github.com/okian/surfcast/pkg/logger"
	"github.com/okian/surfcast/pkg/metrics"
)

const defaultJobTimeout = 30 * time.Second

// ErrInvalidInterval is returned by Start for a non-positive interval.
var ErrInvalidInterval = errors.New("refresh interval must be positive")

// Refresher replaces a cached forecast snapshot.
type Refresher interface {
	Refresh(ctx context.Context, spots []model.Spot) error
}

// SpotLister supplies the spots to refresh.
type SpotLister interface {
	List(ctx context.Context) ([]model.Spot, error)
}

// Option applies a configuration option to the Scheduler.
type Option func(*Scheduler)

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Scheduler) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithJobTimeout bounds a single refresh.
func WithJobTimeout(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// Scheduler runs a forecast refresh on a fixed interval. The first run
// happens as soon as the scheduler starts. Runs never overlap.
type Scheduler struct {
	scheduler *gocron.Scheduler
	target    Refresher
	spots     SpotLister
	interval  time.Duration
	timeout   time.Duration
	logger    logger.Logger
}

// New creates a scheduler that refreshes target every interval.
func New(target Refresher, spots SpotLister, interval time.Duration, opts ...Option) *Scheduler {
	s := &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		target:    target,
		spots:     spots,
		interval:  interval,
		timeout:   defaultJobTimeout,
		logger:    logger.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start schedules the refresh job. Runs stop when ctx is cancelled or Stop is called.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.interval <= 0 {
		return ErrInvalidInterval
	}
	_, err := s.scheduler.Every(s.interval).SingletonMode().Do(func() {
		if ctx.Err() != nil {
			return
		}
		if err := s.RunOnce(ctx); err != nil {
			s.logger.Warn(ctx, "forecast refresh failed", logger.Error(err))
		}
	})
	if err != nil {
		return err
	}
	s.scheduler.StartAsync()
	s.logger.Info(ctx, "forecast refresh scheduled", logger.Duration("interval", s.interval))
	return nil
}

// RunOnce performs a single refresh.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	spots, err := s.spots.List(ctx)
	if err != nil {
		metrics.RecordForecastRefresh("error")
		return err
	}
	start := time.Now()
	if err := s.target.Refresh(ctx, spots); err != nil {
		metrics.RecordForecastRefresh("error")
		return err
	}
	metrics.RecordForecastRefresh("ok")
	s.logger.Debug(ctx, "forecast refreshed",
		logger.Int("spots", len(spots)),
		logger.Duration("took", time.Since(start)),
	)
	return nil
}

// Stop stops the scheduler and cancels any future runs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
