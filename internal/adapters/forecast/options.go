package forecast

import (
	"net/http"
	"time"

	"github.com/okian/surfcast/pkg/logger"
)

// settings collects the knobs shared by the sources in this package. Each
// constructor reads the fields it cares about.
type settings struct {
	logger     logger.Logger
	now        func() time.Time
	workers    int
	client     *http.Client
	backoff    BackoffConfig
	marineURL  string
	weatherURL string
	env        []string
}

func defaultSettings() settings {
	return settings{
		logger:     logger.Discard(),
		now:        time.Now,
		workers:    defaultWorkers,
		client:     &http.Client{Timeout: defaultHTTPTimeout},
		backoff:    defaultBackoff,
		marineURL:  defaultMarineURL,
		weatherURL: defaultWeatherURL,
	}
}

func applyOptions(opts []Option) settings {
	s := defaultSettings()
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// Option configures a source.
type Option func(*settings)

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock sets the clock used by the mock source and the cache.
func WithClock(now func() time.Time) Option {
	return func(s *settings) {
		if now != nil {
			s.now = now
		}
	}
}

// WithWorkers bounds how many spots are fetched at once.
func WithWorkers(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithHTTPClient sets the client used for upstream calls.
func WithHTTPClient(c *http.Client) Option {
	return func(s *settings) {
		if c != nil {
			s.client = c
		}
	}
}

// WithBackoff sets the retry policy for upstream calls.
func WithBackoff(b BackoffConfig) Option {
	return func(s *settings) {
		s.backoff = b
	}
}

// WithMarineURL overrides the Open-Meteo marine endpoint.
func WithMarineURL(u string) Option {
	return func(s *settings) {
		if u != "" {
			s.marineURL = u
		}
	}
}

// WithWeatherURL overrides the Open-Meteo weather endpoint.
func WithWeatherURL(u string) Option {
	return func(s *settings) {
		if u != "" {
			s.weatherURL = u
		}
	}
}

// WithEnv adds environment variables to the command run by ExecSource.
func WithEnv(env ...string) Option {
	return func(s *settings) {
		s.env = append(s.env, env...)
	}
}
