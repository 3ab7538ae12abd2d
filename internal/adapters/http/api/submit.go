// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/okian/podium/internal/domain/model"
	"github.com/okian/podium/internal/domain/types"
)

// SubmitDependencies defines the interface for submission processing.
type SubmitDependencies interface {
	Submit(ctx context.Context, gameID, username string, score int64) ([]model.ScoreRecord, error)
}

// SubmitHandler handles score submission requests.
type SubmitHandler struct {
	deps SubmitDependencies
}

// NewSubmitHandler creates a new submit handler.
func NewSubmitHandler(deps SubmitDependencies) *SubmitHandler {
	return &SubmitHandler{deps: deps}
}

// submitRequest mirrors the JSON body for POST /submit.
type submitRequest struct {
	GameID   string `json:"game_id"`
	Username string `json:"username"`
	Score    *int64 `json:"score"`
}

func (s submitRequest) validate() error {
	switch {
	case strings.TrimSpace(s.GameID) == "":
		return errors.New("missing game_id")
	case strings.TrimSpace(s.Username) == "":
		return errors.New("missing username")
	case s.Score == nil:
		return errors.New("missing score")
	}
	return nil
}

// submitResponse mirrors the JSON body returned by POST /submit.
type submitResponse struct {
	Status    string  `json:"status"`
	TopScores []Entry `json:"top_scores"`
}

// HandlePostSubmit handles POST /submit requests.
func (h *SubmitHandler) HandlePostSubmit(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_submit"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	top, err := h.deps.Submit(r.Context(), req.GameID, req.Username, *req.Score)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, submitResponse{
		Status:    "success",
		TopScores: types.FromRecords(top),
	})
}
