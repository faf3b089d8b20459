package main

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/surfcast/internal/adapters/forecast"
	"github.com/okian/surfcast/internal/adapters/registry"
	app "github.com/okian/surfcast/internal/app"
	"github.com/okian/surfcast/internal/config"
	"github.com/okian/surfcast/internal/domain/ranking"
	"github.com/okian/surfcast/internal/domain/scoring"
	"github.com/okian/surfcast/pkg/logger"
)

// buildService assembles the ranking service from cfg. The returned cleanup
// releases the registry and must be called once the service is stopped.
func buildService(ctx context.Context, cfg *config.Config, log logger.Logger, now func() time.Time) (*app.Service, func(), error) {
	cleanup := func() {}

	var reg registry.Registry
	if cfg.SpotsDB != "" {
		db, err := registry.OpenSQLite(ctx, cfg.SpotsDB, registry.WithLogger(log.Named("registry")))
		if err != nil {
			return nil, cleanup, err
		}
		cleanup = func() {
			if err := db.Close(); err != nil {
				log.Warn(context.Background(), "failed to close spot registry", logger.Error(err))
			}
		}
		reg = db
	} else {
		static, err := registry.NewStaticRegistry(registry.DefaultSpots())
		if err != nil {
			return nil, cleanup, err
		}
		reg = static
	}

	src, err := buildSource(cfg, log, now)
	if err != nil {
		cleanup()
		return nil, func() {}, err
	}

	scorer := scoring.NewRuleScorer(scoring.WithDefaultWaveRange(cfg.DefaultMinWaveHeight, cfg.DefaultMaxWaveHeight))
	svc := app.New(
		app.WithLogger(log.Named("service")),
		app.WithRegistry(reg),
		app.WithSource(src),
		app.WithRanker(ranking.New(ranking.WithScorer(scorer))),
		app.WithForecastTimeout(cfg.ForecastTimeout()),
		app.WithRefreshInterval(cfg.ForecastRefreshInterval()),
		app.WithClock(now),
	)
	return svc, cleanup, nil
}

func buildSource(cfg *config.Config, log logger.Logger, now func() time.Time) (forecast.Source, error) {
	opts := []forecast.Option{
		forecast.WithLogger(log.Named("forecast")),
		forecast.WithClock(now),
		forecast.WithWorkers(cfg.ForecastWorkers),
	}

	var src forecast.Source
	switch cfg.ForecastSource {
	case config.SourceMock:
		src = forecast.NewMockSource(opts...)
	case config.SourceOpenMeteo:
		opts = append(opts,
			forecast.WithMarineURL(cfg.OpenMeteoMarineURL),
			forecast.WithWeatherURL(cfg.OpenMeteoWeatherURL),
		)
		src = forecast.NewOpenMeteoSource(opts...)
	case config.SourceExec:
		name, args := cfg.ForecastCommandLine()
		src = forecast.NewExecSource(name, args, opts...)
	default:
		return nil, fmt.Errorf("%w: unknown forecast_source %q", config.ErrInvalidConfig, cfg.ForecastSource)
	}

	if ttl := cfg.ForecastCacheTTL(); ttl > 0 {
		src = forecast.NewCachedSource(src, ttl, opts...)
	}
	return src, nil
}
