package forecast

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"

	"github.com/okian/surfcast/internal/domain/model"
	"github.com/okian/surfcast/pkg/logger"
	"github.com/okian/surfcast/pkg/metrics"
	"github.com/sony/gobreaker/v2"
)

const (
	openMeteoName     = "openmeteo"
	defaultMarineURL  = "https://marine-api.open-meteo.com/v1/marine"
	defaultWeatherURL = "https://api.open-meteo.com/v1/forecast"

	// Sea level relative to mean, in meters, beyond which the tide counts as high or low.
	tideThreshold = 0.3
)

// OpenMeteoSource reads current marine and wind conditions from Open-Meteo.
// Spots are fetched concurrently through a Pool.
type OpenMeteoSource struct {
	settings
	marine  *gobreaker.CircuitBreaker[*http.Response]
	weather *gobreaker.CircuitBreaker[*http.Response]
	pool    *Pool
}

// NewOpenMeteoSource creates an Open-Meteo source.
func NewOpenMeteoSource(opts ...Option) *OpenMeteoSource {
	s := &OpenMeteoSource{
		settings: applyOptions(opts),
		marine:   newBreaker(openMeteoName + "-marine"),
		weather:  newBreaker(openMeteoName + "-weather"),
	}
	s.logger = s.logger.Named(openMeteoName)
	s.pool = NewPool(s, WithWorkers(s.workers), WithLogger(s.logger))
	return s
}

// Name implements Source.
func (s *OpenMeteoSource) Name() string { return openMeteoName }

// FetchAll implements Source.
func (s *OpenMeteoSource) FetchAll(ctx context.Context, spots []model.Spot) (Snapshot, error) {
	return s.pool.FetchAll(ctx, spots)
}

type marineResponse struct {
	Current struct {
		WaveHeight        *float64 `json:"wave_height"`
		WavePeriod        *float64 `json:"wave_period"`
		SeaLevelHeightMSL *float64 `json:"sea_level_height_msl"`
	} `json:"current"`
}

type weatherResponse struct {
	Current struct {
		WindSpeed     *float64 `json:"wind_speed_10m"`
		WindDirection *float64 `json:"wind_direction_10m"`
	} `json:"current"`
}

// FetchSpot implements SpotFetcher.
func (s *OpenMeteoSource) FetchSpot(ctx context.Context, spot model.Spot) (model.ForecastRecord, error) {
	var m marineResponse
	if err := s.getJSON(ctx, s.marine, s.marineURL, spot, "wave_height,wave_period,sea_level_height_msl", nil, &m); err != nil {
		return model.ForecastRecord{}, fmt.Errorf("marine: %w", err)
	}
	var w weatherResponse
	extra := url.Values{"wind_speed_unit": {"kmh"}}
	if err := s.getJSON(ctx, s.weather, s.weatherURL, spot, "wind_speed_10m,wind_direction_10m", extra, &w); err != nil {
		return model.ForecastRecord{}, fmt.Errorf("weather: %w", err)
	}

	if m.Current.WaveHeight == nil || m.Current.WavePeriod == nil {
		return model.ForecastRecord{}, fmt.Errorf("%w: marine response without waves", model.ErrMalformedForecast)
	}
	if w.Current.WindSpeed == nil || w.Current.WindDirection == nil {
		return model.ForecastRecord{}, fmt.Errorf("%w: weather response without wind", model.ErrMalformedForecast)
	}

	return model.ForecastRecord{
		WaveHeight:    *m.Current.WaveHeight,
		WavePeriod:    *m.Current.WavePeriod,
		WindSpeed:     *w.Current.WindSpeed,
		WindDirection: math.Mod(*w.Current.WindDirection, 360),
		Tide:          tideFromSeaLevel(m.Current.SeaLevelHeightMSL),
	}, nil
}

func (s *OpenMeteoSource) getJSON(
	ctx context.Context,
	cb *gobreaker.CircuitBreaker[*http.Response],
	base string,
	spot model.Spot,
	fields string,
	extra url.Values,
	out any,
) error {
	build := func(ctx context.Context) (*http.Request, error) {
		values := url.Values{}
		values.Set("latitude", strconv.FormatFloat(spot.Coordinates.Lat, 'f', 4, 64))
		values.Set("longitude", strconv.FormatFloat(spot.Coordinates.Lng, 'f', 4, 64))
		values.Set("current", fields)
		for k, v := range extra {
			values[k] = v
		}
		return http.NewRequestWithContext(ctx, http.MethodGet, base+"?"+values.Encode(), nil)
	}

	resp, err := doRequestWithResilience(ctx, s.client, s.backoff, cb, build)
	if err != nil {
		metrics.RecordForecastError(openMeteoName, errorKind(err))
		s.logger.Warn(ctx, "open-meteo request failed",
			logger.String("spot", spot.ID),
			logger.String("breaker", cb.Name()),
			logger.Error(err),
		)
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		metrics.RecordForecastError(openMeteoName, "decode")
		return fmt.Errorf("%w: decode: %v", model.ErrMalformedForecast, err)
	}
	return nil
}

// tideFromSeaLevel classifies the current sea level against mean sea level.
func tideFromSeaLevel(level *float64) model.Tide {
	if level == nil {
		return model.Tide{Status: model.TideMid, Next: "unknown"}
	}
	status := model.TideMid
	switch {
	case *level > tideThreshold:
		status = model.TideHigh
	case *level < -tideThreshold:
		status = model.TideLow
	}
	return model.Tide{Status: status, Next: fmt.Sprintf("sea level %+.2f m", *level)}
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, ErrCircuitOpen):
		return "circuit_open"
	case errors.Is(err, ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, ErrUpstream):
		return "upstream"
	case isTransport(err):
		return "transport"
	}
	return "other"
}
