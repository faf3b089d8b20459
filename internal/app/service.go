// Package service provides the core business service that implements
// the dependencies required by the HTTP API and the CLI.
package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/okian/surfcast/internal/adapters/forecast"
	"github.com/okian/surfcast/internal/adapters/registry"
	"github.com/okian/surfcast/internal/adapters/scheduler"
	"github.com/okian/surfcast/internal/domain/model"
	"github.com/okian/surfcast/internal/domain/ranking"
	"github.com/okian/surfcast/internal/domain/types"
	"github.com/okian/surfcast/pkg/logger"
	"github.com/okian/surfcast/pkg/metrics"
)

const defaultForecastTimeout = 5 * time.Second

// Rank outcomes used as metric labels.
const (
	outcomeOK          = "ok"
	outcomeInvalid     = "invalid"
	outcomeUnavailable = "forecast_unavailable"
	outcomeError       = "error"
)

// refresher is implemented by sources that can be warmed in the background.
type refresher interface {
	Refresh(ctx context.Context, spots []model.Spot) error
}

// Service ranks the registered spots against a forecast snapshot.
type Service struct {
	mu sync.RWMutex

	registry registry.Registry
	source   forecast.Source
	ranker   *ranking.Ranker
	charts   *forecast.ChartSource
	refresh  *scheduler.Scheduler

	forecastTimeout time.Duration
	refreshInterval time.Duration
	now             func() time.Time
	newID           func() string

	started   bool
	startedAt time.Time

	rankRequests atomic.Int64
	rankFailures atomic.Int64
	lastRankUnix atomic.Int64

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRegistry sets the spot registry.
func WithRegistry(r registry.Registry) Option {
	return func(s *Service) {
		if r != nil {
			s.registry = r
		}
	}
}

// WithSource sets the forecast source.
func WithSource(src forecast.Source) Option {
	return func(s *Service) {
		if src != nil {
			s.source = src
		}
	}
}

// WithRanker sets the ranker.
func WithRanker(r *ranking.Ranker) Option {
	return func(s *Service) {
		if r != nil {
			s.ranker = r
		}
	}
}

// WithChartSource sets the chart series source.
func WithChartSource(c *forecast.ChartSource) Option {
	return func(s *Service) {
		if c != nil {
			s.charts = c
		}
	}
}

// WithForecastTimeout bounds each forecast fetch.
func WithForecastTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.forecastTimeout = d
		}
	}
}

// WithRefreshInterval enables background refresh when the source supports it.
func WithRefreshInterval(d time.Duration) Option {
	return func(s *Service) {
		s.refreshInterval = d
	}
}

// WithClock sets the clock that decides the ranking month.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithRequestIDs replaces the request id generator.
func WithRequestIDs(gen func() string) Option {
	return func(s *Service) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// New constructs a Service. Without options it ranks the built-in spots
// against mock forecasts.
func New(opts ...Option) *Service {
	s := &Service{
		source:          forecast.NewMockSource(),
		ranker:          ranking.New(),
		charts:          forecast.NewChartSource(),
		forecastTimeout: defaultForecastTimeout,
		now:             time.Now,
		newID:           uuid.NewString,
		logger:          logger.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.registry == nil {
		s.registry = registry.MustNewStaticRegistry(registry.DefaultSpots())
	}
	return s
}

// Start launches background forecast refresh when configured.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	s.logger.Info(ctx, "starting surfcast service...",
		logger.String("source", s.source.Name()),
		logger.Int("spots", s.registry.Count(ctx)),
	)

	if r, ok := s.source.(refresher); ok && s.refreshInterval > 0 {
		s.refresh = scheduler.New(r, s.registry, s.refreshInterval,
			scheduler.WithLogger(s.logger.Named("refresh")),
			scheduler.WithJobTimeout(s.forecastTimeout),
		)
		if err := s.refresh.Start(ctx); err != nil {
			return fmt.Errorf("start forecast refresh: %w", err)
		}
	}

	metrics.UpdateRegisteredSpots(s.registry.Count(ctx))
	s.started = true
	s.startedAt = s.now()
	s.logger.Info(ctx, "surfcast service started")
	return nil
}

// Stop stops background work.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	if s.refresh != nil {
		s.refresh.Stop()
		s.refresh = nil
	}
	s.started = false
	s.logger.Info(context.Background(), "surfcast service stopped")
}

// Rank scores every registered spot for prefs and returns them best first.
// Forecast problems fail the whole request with forecast.ErrUnavailable.
func (s *Service) Rank(ctx context.Context, prefs model.Preferences) (types.Ranking, error) {
	start := time.Now()
	s.rankRequests.Add(1)

	result, outcome, err := s.rank(ctx, prefs)
	metrics.RecordRankRequest(outcome)
	metrics.RecordRankLatency(float64(time.Since(start).Milliseconds()))
	if err != nil {
		s.rankFailures.Add(1)
		s.logger.Warn(ctx, "ranking failed",
			logger.String("outcome", outcome),
			logger.Error(err),
		)
		return types.Ranking{}, err
	}

	s.lastRankUnix.Store(s.now().Unix())
	metrics.RecordSpotsRanked(len(result.Spots))
	for _, sp := range result.Spots {
		metrics.ObserveSuitability(sp.Suitability)
	}
	s.logger.Debug(ctx, "ranking complete",
		logger.String("request_id", result.RequestID),
		logger.String("skill", string(prefs.SkillLevel)),
		logger.Int("spots", len(result.Spots)),
		logger.Duration("took", time.Since(start)),
	)
	return result, nil
}

func (s *Service) rank(ctx context.Context, prefs model.Preferences) (types.Ranking, string, error) {
	if err := prefs.Validate(); err != nil {
		return types.Ranking{}, outcomeInvalid, err
	}

	spots, err := s.registry.List(ctx)
	if err != nil {
		return types.Ranking{}, outcomeError, fmt.Errorf("list spots: %w", err)
	}

	pairs, err := s.fetch(ctx, spots)
	if err != nil {
		return types.Ranking{}, outcomeUnavailable, err
	}

	month := s.now().Month()
	ranked, err := s.ranker.RankForMonth(pairs, prefs, month)
	if err != nil {
		return types.Ranking{}, outcomeError, err
	}
	return types.Ranking{
		RequestID: s.newID(),
		Month:     int(month),
		Spots:     ranked,
	}, outcomeOK, nil
}

// fetch returns one validated forecast per spot or an ErrUnavailable error.
func (s *Service) fetch(ctx context.Context, spots []model.Spot) ([]model.SpotForecast, error) {
	name := s.source.Name()
	fctx, cancel := context.WithTimeout(ctx, s.forecastTimeout)
	defer cancel()

	start := time.Now()
	snap, err := s.source.FetchAll(fctx, spots)
	metrics.RecordForecastFetch(name, float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.RecordForecastError(name, "fetch")
		return nil, fmt.Errorf("%w: %s: %w", forecast.ErrUnavailable, name, err)
	}

	pairs, err := snap.Pairs(spots)
	if err != nil {
		metrics.RecordForecastError(name, "invalid")
		return nil, fmt.Errorf("%w: %s: %w", forecast.ErrUnavailable, name, err)
	}
	return pairs, nil
}

// Spots lists the registered spots.
func (s *Service) Spots(ctx context.Context) ([]model.Spot, error) {
	return s.registry.List(ctx)
}

// Chart returns the weekly forecast chart.
func (s *Service) Chart(ctx context.Context) (types.Chart, error) {
	return s.charts.Chart(ctx)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	spots := s.registry.Count(ctx)
	stats := map[string]interface{}{
		"started":           s.started,
		"spots":             spots,
		"forecastSource":    s.source.Name(),
		"forecastTimeoutMs": s.forecastTimeout.Milliseconds(),
		"backgroundRefresh": s.refresh != nil,
		"rankRequests":      s.rankRequests.Load(),
		"rankFailures":      s.rankFailures.Load(),
	}
	if s.started {
		stats["uptimeSeconds"] = int64(s.now().Sub(s.startedAt).Seconds())
	}
	if last := s.lastRankUnix.Load(); last > 0 {
		stats["lastRankAt"] = time.Unix(last, 0).UTC().Format(time.RFC3339)
	}
	if aged, ok := s.source.(interface{ Age() (time.Duration, bool) }); ok {
		if age, cached := aged.Age(); cached {
			stats["forecastAgeSeconds"] = int64(age.Seconds())
		}
	}
	metrics.UpdateRegisteredSpots(spots)
	return stats
}
