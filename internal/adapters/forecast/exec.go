package forecast

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/okian/surfcast/internal/domain/model"
	"github.com/okian/surfcast/pkg/logger"
)

const execName = "exec"

// ExecSource runs an external prediction command once per cycle. The command
// prints {"spots":[{"id":..,"forecast":{..}}]} on stdout. On failure it exits
// non-zero and may print {"error":".."} on stderr.
type ExecSource struct {
	settings
	command string
	args    []string
}

// NewExecSource creates a source that runs command with args.
func NewExecSource(command string, args []string, opts ...Option) *ExecSource {
	s := &ExecSource{
		settings: applyOptions(opts),
		command:  command,
		args:     append([]string(nil), args...),
	}
	s.logger = s.logger.Named("forecast-exec")
	return s
}

// Name implements Source.
func (s *ExecSource) Name() string { return execName }

type execOutput struct {
	Spots []struct {
		ID       spotID     `json:"id"`
		Forecast execRecord `json:"forecast"`
	} `json:"spots"`
}

// execRecord mirrors model.ForecastRecord with every field required. A zero
// reading and an absent one must not look alike.
type execRecord struct {
	WaveHeight    *float64    `json:"waveHeight"`
	WavePeriod    *float64    `json:"wavePeriod"`
	WindSpeed     *float64    `json:"windSpeed"`
	WindDirection *float64    `json:"windDirection"`
	Tide          *model.Tide `json:"tide"`
}

func (r execRecord) record() (model.ForecastRecord, error) {
	missing := make([]string, 0, 5)
	for _, f := range []struct {
		name string
		set  bool
	}{
		{"waveHeight", r.WaveHeight != nil},
		{"wavePeriod", r.WavePeriod != nil},
		{"windSpeed", r.WindSpeed != nil},
		{"windDirection", r.WindDirection != nil},
		{"tide", r.Tide != nil},
	} {
		if !f.set {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return model.ForecastRecord{}, fmt.Errorf("%w: missing %s",
			model.ErrMalformedForecast, strings.Join(missing, ", "))
	}
	return model.ForecastRecord{
		WaveHeight:    *r.WaveHeight,
		WavePeriod:    *r.WavePeriod,
		WindSpeed:     *r.WindSpeed,
		WindDirection: *r.WindDirection,
		Tide:          *r.Tide,
	}, nil
}

type execError struct {
	Error string `json:"error"`
}

// spotID accepts both string and numeric ids.
type spotID string

func (id *spotID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = spotID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("spot id %s: %w", data, err)
	}
	*id = spotID(n.String())
	return nil
}

// FetchAll implements Source. Spots missing from the command output are left
// out of the snapshot for the caller to reject. A requested spot whose record
// lacks a field fails the whole fetch.
func (s *ExecSource) FetchAll(ctx context.Context, spots []model.Spot) (Snapshot, error) {
	cmd := exec.CommandContext(ctx, s.command, s.args...)
	if len(s.env) > 0 {
		cmd.Env = append(os.Environ(), s.env...)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%w: %v", ErrCommandFailed, ctxErr)
		}
		msg := strings.TrimSpace(stderr.String())
		var e execError
		if json.Unmarshal(stderr.Bytes(), &e) == nil && e.Error != "" {
			msg = e.Error
		}
		s.logger.Warn(ctx, "forecast command failed",
			logger.String("command", s.command),
			logger.String("stderr", msg),
			logger.Error(err),
		)
		return nil, fmt.Errorf("%w: %v: %s", ErrCommandFailed, err, msg)
	}

	var out execOutput
	if err := json.Unmarshal(stdout.Bytes(), &out); err != nil {
		return nil, fmt.Errorf("%w: decode command output: %v", model.ErrMalformedForecast, err)
	}

	wanted := make(map[string]struct{}, len(spots))
	for _, sp := range spots {
		wanted[sp.ID] = struct{}{}
	}
	snap := make(Snapshot, len(spots))
	for _, entry := range out.Spots {
		id := string(entry.ID)
		if _, ok := wanted[id]; !ok {
			continue
		}
		rec, err := entry.Forecast.record()
		if err != nil {
			return nil, fmt.Errorf("spot %s: %w", id, err)
		}
		snap[id] = rec
	}
	return snap, nil
}
