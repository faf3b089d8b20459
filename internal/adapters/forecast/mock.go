package forecast

import (
	"context"
	"hash/fnv"
	"math"
	"math/rand"
	"strconv"

	"github.com/okian/surfcast/internal/domain/model"
)

const (
	mockName          = "mock"
	mockMinWaveHeight = 0.5
)

// MockSource generates plausible, deterministic forecasts from the clock hour
// and the spot id. The same hour and spot always produce the same record.
type MockSource struct {
	settings
}

// NewMockSource creates a mock source. WithClock pins its output.
func NewMockSource(opts ...Option) *MockSource {
	return &MockSource{settings: applyOptions(opts)}
}

// Name implements Source.
func (m *MockSource) Name() string { return mockName }

// FetchAll implements Source.
func (m *MockSource) FetchAll(ctx context.Context, spots []model.Spot) (Snapshot, error) {
	snap := make(Snapshot, len(spots))
	for _, sp := range spots {
		rec, err := m.FetchSpot(ctx, sp)
		if err != nil {
			return nil, err
		}
		snap[sp.ID] = rec
	}
	return snap, nil
}

// FetchSpot implements SpotFetcher.
func (m *MockSource) FetchSpot(ctx context.Context, spot model.Spot) (model.ForecastRecord, error) {
	if err := ctx.Err(); err != nil {
		return model.ForecastRecord{}, err
	}
	hour := m.now().Hour()
	id := spotSeed(spot.ID)
	rng := rand.New(rand.NewSource(int64(hour + id))) //nolint:gosec // reproducible mock data

	height := 1.0 + math.Sin(float64(hour)*0.2+float64(id))*0.8 + (rng.Float64()*0.2 - 0.1)
	height = math.Max(mockMinWaveHeight, math.Round(height*10)/10)

	status := model.TideLow
	if math.Sin(float64(hour)*0.5+float64(id)) > 0 {
		status = model.TideHigh
	}

	return model.ForecastRecord{
		WaveHeight:    height,
		WavePeriod:    float64(7 + rng.Intn(8)),
		WindSpeed:     float64(3 + rng.Intn(13)),
		WindDirection: offshoreDirection(spot.Region, rng),
		Tide:          model.Tide{Status: status, Next: "TBD"},
	}, nil
}

// offshoreDirection picks a direction strictly inside the region's offshore window.
func offshoreDirection(region model.Region, rng *rand.Rand) float64 {
	if region == model.RegionSouthCoast {
		return float64((331 + rng.Intn(59)) % 360)
	}
	return float64(241 + rng.Intn(58))
}

// spotSeed turns a spot id into a small integer. Numeric ids map to themselves.
func spotSeed(id string) int {
	if n, err := strconv.Atoi(id); err == nil {
		return n
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	return int(h.Sum32() % 1000)
}
