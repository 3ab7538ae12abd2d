// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/podium/internal/domain/model"
	"github.com/okian/podium/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Submit runs one score submission and returns the post-submission
	// top-N projection.
	Submit(ctx context.Context, gameID, username string, score int64) ([]model.ScoreRecord, error)

	// Ranking returns the full ordered ranking of a game.
	Ranking(ctx context.Context, gameID string) ([]model.ScoreRecord, error)
}

// Entry mirrors the read shape returned by leaderboard queries.
type Entry = types.Entry

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	submitHandler  *SubmitHandler
	rankingHandler *RankingHandler
	allowedIPs     []string
}

// ServerOption applies a configuration option to the Server.
type ServerOption func(*Server)

// WithAllowedIPs restricts the API to the given client addresses. An empty
// list allows everyone.
func WithAllowedIPs(ips []string) ServerOption {
	return func(s *Server) {
		s.allowedIPs = ips
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...ServerOption) *Server {
	s := &Server{
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(statsProvider),
		submitHandler:  NewSubmitHandler(deps),
		rankingHandler: NewRankingHandler(deps),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	guard := func(h http.HandlerFunc, endpoint string) http.HandlerFunc {
		return AllowlistMiddleware(RequestIDMiddleware(MetricsMiddleware(h, endpoint)), s.allowedIPs)
	}
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", guard(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/submit", guard(s.submitHandler.HandlePostSubmit, "submit"))
	mux.HandleFunc("/ranking/", guard(s.rankingHandler.HandleGetRanking, "ranking"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
