// Package probe exercises a running surfcast server end to end and checks
// that every ranking it returns is well formed.
package probe

import (
	"time"

	"github.com/okian/surfcast/pkg/logger"
)

const (
	defaultTimeout  = 10 * time.Second
	defaultWorkers  = 4
	defaultRequests = 1
)

// Config holds configuration for a probe run.
type Config struct {
	BaseURL    string        // Base URL of the service
	Requests   int           // Rank requests per skill level
	Workers    int           // Number of concurrent workers
	Timeout    time.Duration // HTTP request timeout
	OutputFile string        // Optional JSON report path
	Logger     logger.Logger // Defaults to a discarding logger
}

func (c *Config) withDefaults() Config {
	out := *c
	if out.Requests < 1 {
		out.Requests = defaultRequests
	}
	if out.Workers < 1 {
		out.Workers = defaultWorkers
	}
	if out.Timeout <= 0 {
		out.Timeout = defaultTimeout
	}
	if out.Logger == nil {
		out.Logger = logger.Discard()
	}
	return out
}

// Stats holds probe statistics.
type Stats struct {
	Spots      int           `json:"spots"`
	Requests   int           `json:"requests"`
	Succeeded  int           `json:"succeeded"`
	Failed     int           `json:"failed"`
	Violations []string      `json:"violations,omitempty"`
	StartTime  time.Time     `json:"start_time"`
	EndTime    time.Time     `json:"end_time"`
	Duration   time.Duration `json:"duration_ns"`
}
