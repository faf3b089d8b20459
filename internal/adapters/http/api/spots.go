package api

import (
	"context"
	"net/http"

	"github.com/okian/surfcast/internal/domain/model"
)

// SpotsDependencies lists the registered spots.
type SpotsDependencies interface {
	Spots(ctx context.Context) ([]model.Spot, error)
}

// SpotsHandler handles spot listing requests.
type SpotsHandler struct {
	deps SpotsDependencies
}

// NewSpotsHandler creates a new spots handler.
func NewSpotsHandler(deps SpotsDependencies) *SpotsHandler {
	return &SpotsHandler{deps: deps}
}

type spotsResponse struct {
	Spots []model.Spot `json:"spots"`
}

// HandleSpots handles GET /spots requests.
func (h *SpotsHandler) HandleSpots(w http.ResponseWriter, r *http.Request) {
	const op = "api.spots"
	if r.Method != http.MethodGet {
		methodNotAllowed(w, op, http.MethodGet)
		return
	}
	spots, err := h.deps.Spots(r.Context())
	if err != nil {
		status, code := statusFor(err)
		writeError(w, status, code, Wrap(op, err))
		return
	}
	if spots == nil {
		spots = []model.Spot{}
	}
	writeJSON(w, http.StatusOK, spotsResponse{Spots: spots})
}
