// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers .env, an optional YAML file and SURFCAST_ env vars on top.
// - Validation errors wrap ErrInvalidConfig.
package config

import (
	"strings"
	"time"
)

// Forecast source names.
const (
	SourceMock      = "mock"
	SourceOpenMeteo = "openmeteo"
	SourceExec      = "exec"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogFormat selects text or json log lines.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// ForecastSource picks the forecast adapter: mock, openmeteo or exec.
	ForecastSource string `koanf:"forecast_source"`
	// ForecastCommand is the command line run by the exec source.
	ForecastCommand string `koanf:"forecast_command"`
	// ForecastTimeoutMS bounds one forecast cycle.
	ForecastTimeoutMS int `koanf:"forecast_timeout_ms"`
	// ForecastWorkers bounds concurrent per-spot fetches.
	ForecastWorkers int `koanf:"forecast_workers"`
	// ForecastCacheTTLSeconds keeps snapshots for this long; 0 disables caching.
	ForecastCacheTTLSeconds int `koanf:"forecast_cache_ttl_s"`
	// ForecastRefreshSeconds refreshes the cache in the background; 0 disables it.
	ForecastRefreshSeconds int `koanf:"forecast_refresh_interval_s"`

	OpenMeteoMarineURL  string `koanf:"openmeteo_marine_url"`
	OpenMeteoWeatherURL string `koanf:"openmeteo_weather_url"`

	// SpotsDB is a SQLite file holding the spot registry. Empty means the built-in list.
	SpotsDB string `koanf:"spots_db"`

	// RateLimitRPS limits ranking requests per second; 0 disables limiting.
	RateLimitRPS   float64 `koanf:"rate_limit_rps"`
	RateLimitBurst int     `koanf:"rate_limit_burst"`

	// Wave range used when a request carries no usable bounds.
	DefaultMinWaveHeight float64 `koanf:"default_min_wave_height"`
	DefaultMaxWaveHeight float64 `koanf:"default_max_wave_height"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:                "info",
		LogFormat:               "text",
		Addr:                    ":9080",
		ForecastSource:          SourceMock,
		ForecastTimeoutMS:       5000,
		ForecastWorkers:         4,
		ForecastCacheTTLSeconds: 600,
		ForecastRefreshSeconds:  0,
		OpenMeteoMarineURL:      "https://marine-api.open-meteo.com/v1/marine",
		OpenMeteoWeatherURL:     "https://api.open-meteo.com/v1/forecast",
		RateLimitRPS:            20,
		RateLimitBurst:          40,
		DefaultMinWaveHeight:    0.5,
		DefaultMaxWaveHeight:    2.5,
	}
}

// ForecastTimeout returns ForecastTimeoutMS as a duration.
func (c *Config) ForecastTimeout() time.Duration {
	return time.Duration(c.ForecastTimeoutMS) * time.Millisecond
}

// ForecastCacheTTL returns ForecastCacheTTLSeconds as a duration.
func (c *Config) ForecastCacheTTL() time.Duration {
	return time.Duration(c.ForecastCacheTTLSeconds) * time.Second
}

// ForecastRefreshInterval returns ForecastRefreshSeconds as a duration.
func (c *Config) ForecastRefreshInterval() time.Duration {
	return time.Duration(c.ForecastRefreshSeconds) * time.Second
}

// ForecastCommandLine splits ForecastCommand into a program and its arguments.
func (c *Config) ForecastCommandLine() (string, []string) {
	fields := strings.Fields(c.ForecastCommand)
	if len(fields) == 0 {
		return "", nil
	}
	return fields[0], fields[1:]
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return invalid("addr", "must not be empty")
	case c.ForecastSource != SourceMock && c.ForecastSource != SourceOpenMeteo && c.ForecastSource != SourceExec:
		return invalid("forecast_source", "unknown source %q", c.ForecastSource)
	case c.ForecastSource == SourceExec && strings.TrimSpace(c.ForecastCommand) == "":
		return invalid("forecast_command", "required for the exec source")
	case c.ForecastTimeoutMS <= 0:
		return invalid("forecast_timeout_ms", "must be positive")
	case c.ForecastWorkers <= 0:
		return invalid("forecast_workers", "must be positive")
	case c.ForecastCacheTTLSeconds < 0:
		return invalid("forecast_cache_ttl_s", "must not be negative")
	case c.ForecastRefreshSeconds < 0:
		return invalid("forecast_refresh_interval_s", "must not be negative")
	case c.ForecastRefreshSeconds > 0 && c.ForecastCacheTTLSeconds == 0:
		return invalid("forecast_refresh_interval_s", "needs forecast_cache_ttl_s")
	case c.RateLimitRPS < 0:
		return invalid("rate_limit_rps", "must not be negative")
	case c.RateLimitBurst < 0:
		return invalid("rate_limit_burst", "must not be negative")
	case c.DefaultMinWaveHeight < 0:
		return invalid("default_min_wave_height", "must not be negative")
	case c.DefaultMaxWaveHeight < c.DefaultMinWaveHeight:
		return invalid("default_max_wave_height", "must not be below default_min_wave_height")
	}
	return nil
}
