package api

import (
	"context"
	"net/http"

	"github.com/okian/surfcast/internal/domain/types"
)

// ChartDependencies provides the weekly forecast chart.
type ChartDependencies interface {
	Chart(ctx context.Context) (types.Chart, error)
}

// ChartHandler handles forecast chart requests.
type ChartHandler struct {
	deps ChartDependencies
}

// NewChartHandler creates a new chart handler.
func NewChartHandler(deps ChartDependencies) *ChartHandler {
	return &ChartHandler{deps: deps}
}

// HandleChart handles GET /forecast/chart requests.
func (h *ChartHandler) HandleChart(w http.ResponseWriter, r *http.Request) {
	const op = "api.chart"
	if r.Method != http.MethodGet {
		methodNotAllowed(w, op, http.MethodGet)
		return
	}
	chart, err := h.deps.Chart(r.Context())
	if err != nil {
		status, code := statusFor(err)
		writeError(w, status, code, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, chart)
}
