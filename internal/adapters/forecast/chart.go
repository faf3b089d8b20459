package forecast

import (
	"context"

	"github.com/okian/surfcast/internal/domain/types"
)

// ChartSource serves the weekly wave-height chart. The series is static.
type ChartSource struct {
	chart types.Chart
}

// NewChartSource returns the built-in weekly series.
func NewChartSource() *ChartSource {
	return &ChartSource{chart: types.Chart{
		Labels: []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"},
		Datasets: []types.Dataset{{
			Label: "Wave height (m)",
			Data:  []float64{1.2, 1.5, 1.8, 1.4, 1.1, 0.9, 1.3},
		}},
	}}
}

// Chart returns a copy of the series.
func (c *ChartSource) Chart(_ context.Context) (types.Chart, error) {
	out := types.Chart{
		Labels:   append([]string(nil), c.chart.Labels...),
		Datasets: make([]types.Dataset, len(c.chart.Datasets)),
	}
	for i, d := range c.chart.Datasets {
		out.Datasets[i] = types.Dataset{Label: d.Label, Data: append([]float64(nil), d.Data...)}
	}
	return out, nil
}
