// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/okian/surfcast/internal/domain/model"
	"github.com/okian/surfcast/internal/domain/types"
	"github.com/okian/surfcast/pkg/logger"
)

const maxRankBodyBytes = 64 << 10

// RankDependencies defines the interface for rank operations.
type RankDependencies interface {
	Rank(ctx context.Context, prefs model.Preferences) (types.Ranking, error)
}

// RankHandler handles rank requests.
type RankHandler struct {
	deps   RankDependencies
	logger logger.Logger
}

// NewRankHandler creates a new rank handler.
func NewRankHandler(deps RankDependencies, l logger.Logger) *RankHandler {
	if l == nil {
		l = logger.Discard()
	}
	return &RankHandler{deps: deps, logger: l}
}

// rankRequest mirrors the OpenAPI schema for POST /rank.
type rankRequest struct {
	Preferences preferencesPayload `json:"preferences"`
}

// preferencesPayload is the wire form of model.Preferences. Enum values are
// matched case-insensitively; wave bounds accept numbers or numeric strings
// and fall back to defaults otherwise.
type preferencesPayload struct {
	SkillLevel     string      `json:"skillLevel" validate:"required,skill"`
	MinWaveHeight  model.Bound `json:"minWaveHeight"`
	MaxWaveHeight  model.Bound `json:"maxWaveHeight"`
	TidePreference string      `json:"tidePreference" validate:"omitempty,tide"`
	BoardType      string      `json:"boardType" validate:"omitempty,board"`
}

func preferencesFromQuery(q url.Values) preferencesPayload {
	return preferencesPayload{
		SkillLevel:     q.Get("skill"),
		MinWaveHeight:  model.ParseBound(q.Get("min")),
		MaxWaveHeight:  model.ParseBound(q.Get("max")),
		TidePreference: q.Get("tide"),
		BoardType:      q.Get("board"),
	}
}

func (p preferencesPayload) preferences() (model.Preferences, error) {
	if err := validateStruct(p); err != nil {
		return model.Preferences{}, err
	}
	skill, err := model.ParseSkillLevel(p.SkillLevel)
	if err != nil {
		return model.Preferences{}, err
	}
	tide, err := model.ParseTidePreference(p.TidePreference)
	if err != nil {
		return model.Preferences{}, err
	}
	board, err := model.ParseBoardType(p.BoardType)
	if err != nil {
		return model.Preferences{}, err
	}
	return model.Preferences{
		SkillLevel:     skill,
		MinWaveHeight:  p.MinWaveHeight,
		MaxWaveHeight:  p.MaxWaveHeight,
		TidePreference: tide,
		BoardType:      board,
	}, nil
}

// HandleRank handles GET /rank?skill=.. and POST /rank requests.
func (h *RankHandler) HandleRank(w http.ResponseWriter, r *http.Request) {
	const op = "api.rank"

	var payload preferencesPayload
	switch r.Method {
	case http.MethodGet:
		payload = preferencesFromQuery(r.URL.Query())
	case http.MethodPost:
		var req rankRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRankBodyBytes)).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		payload = req.Preferences
	default:
		methodNotAllowed(w, op, "GET, POST")
		return
	}

	prefs, err := payload.preferences()
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	res, err := h.deps.Rank(r.Context(), prefs)
	if err != nil {
		status, code := statusFor(err)
		if status >= http.StatusInternalServerError {
			h.logger.Error(r.Context(), "rank request failed",
				logger.Int("status", status),
				logger.Error(err),
			)
		}
		writeError(w, status, code, Wrap(op, err))
		return
	}
	w.Header().Set("X-Request-ID", res.RequestID)
	writeJSON(w, http.StatusOK, res)
}
