// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/okian/podium/internal/domain/model"
	"github.com/okian/podium/internal/domain/types"
)

// RankingDependencies defines the interface for ranking queries.
type RankingDependencies interface {
	Ranking(ctx context.Context, gameID string) ([]model.ScoreRecord, error)
}

// RankingHandler handles read-only ranking requests.
type RankingHandler struct {
	deps RankingDependencies
}

// NewRankingHandler creates a new ranking handler.
func NewRankingHandler(deps RankingDependencies) *RankingHandler {
	return &RankingHandler{deps: deps}
}

// HandleGetRanking handles GET /ranking/{game_id} requests. An unknown
// game returns an empty ranking.
func (h *RankingHandler) HandleGetRanking(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_ranking"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	gameID := strings.TrimPrefix(r.URL.Path, "/ranking/")
	if gameID == "" || strings.Contains(gameID, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	ordered, err := h.deps.Ranking(r.Context(), gameID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, types.FromRecords(ordered))
}
