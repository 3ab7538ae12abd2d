// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	retry "github.com/avast/retry-go/v4"

	repository "github.com/okian/podium/internal/adapters/repository"
	"github.com/okian/podium/internal/domain/model"
	"github.com/okian/podium/internal/domain/movement"
	"github.com/okian/podium/internal/domain/ranking"
	"github.com/okian/podium/pkg/logger"
	"github.com/okian/podium/pkg/metrics"
)

// Default coordinator configuration constants.
const (
	defaultTopN        = 10
	defaultMaxAttempts = 5
	retryBaseDelay     = 2 * time.Millisecond
)

// Service coordinates score submissions end-to-end: load the game's
// records, rank, apply the submission, re-rank, detect rank movement,
// persist, and project the top-N. Concurrency control is optimistic: the
// whole sequence retries on a store version conflict, so submissions for
// the same game serialize while different games proceed in parallel.
type Service struct {
	mu sync.RWMutex

	store       repository.Store
	topN        int
	maxAttempts uint
	now         func() time.Time

	started bool

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the score store backend.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithTopN sets the size of the post-submission projection.
func WithTopN(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.topN = n
		}
	}
}

// WithMaxAttempts bounds the optimistic-concurrency retry loop.
func WithMaxAttempts(attempts uint) Option {
	return func(s *Service) {
		if attempts > 0 {
			s.maxAttempts = attempts
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.logger = log
		}
	}
}

// WithClock overrides the submission timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		topN:        defaultTopN,
		maxAttempts: defaultMaxAttempts,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes the service. A store must be configured or the default
// in-memory backend is used.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	if s.store == nil {
		s.store = repository.NewMemStore()
		s.logger.Info(ctx, "using in-memory score store")
	}

	s.started = true
	s.logger.Info(ctx, "leaderboard service started",
		logger.Int("topN", s.topN),
		logger.Int("maxAttempts", int(s.maxAttempts)),
	)
	return nil
}

// Stop shuts the service down, closing the store when it supports it.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	if closer, ok := s.store.(interface{ Close() error }); ok {
		_ = closer.Close()
	}
	s.started = false
	s.logger.Info(context.Background(), "leaderboard service stopped")
}

// Submit runs one submission and returns the post-submission top-N
// projection. The score is applied only when it improves the user's stored
// best; either way every visible user's movement marker is recomputed
// against the ranking immediately before this submission.
func (s *Service) Submit(ctx context.Context, gameID, username string, score int64) ([]model.ScoreRecord, error) {
	start := time.Now()
	defer func() {
		metrics.RecordSubmissionLatency(float64(time.Since(start).Milliseconds()))
	}()

	if gameID == "" || username == "" {
		return nil, ErrInvalidSubmission
	}

	var (
		top     []model.ScoreRecord
		attempt int
	)
	err := retry.Do(
		func() error {
			attempt++
			if attempt > 1 {
				metrics.RecordSubmissionRetry()
			}
			projected, err := s.submitOnce(ctx, gameID, username, score)
			if err != nil {
				return err
			}
			top = projected
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(s.maxAttempts),
		retry.RetryIf(func(err error) bool {
			return errors.Is(err, repository.ErrVersionConflict)
		}),
		retry.Delay(retryBaseDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		s.logger.Error(ctx, "submission failed",
			logger.String("game", gameID),
			logger.String("username", username),
			logger.Int("attempts", attempt),
			logger.Error(err),
		)
		return nil, fmt.Errorf("submit to %s: %w", gameID, err)
	}

	s.logger.Debug(ctx, "submission processed",
		logger.String("game", gameID),
		logger.String("username", username),
		logger.Int64("score", score),
		logger.Int("attempts", attempt),
	)
	return top, nil
}

// submitOnce executes one optimistic attempt of the submission sequence.
func (s *Service) submitOnce(ctx context.Context, gameID, username string, score int64) ([]model.ScoreRecord, error) {
	records, version, err := s.store.LoadAll(ctx, gameID)
	if err != nil {
		return nil, err
	}
	before := ranking.Rank(records)

	outcome := "noop"
	found := false
	for i := range records {
		if records[i].Username != username {
			continue
		}
		found = true
		// Scores are monotonic: a non-improving submission leaves score
		// and timestamp alone but still recomputes markers below.
		if score > records[i].Score {
			records[i].Score = score
			records[i].SubmittedAt = s.now().UTC()
			outcome = "improved"
		}
		break
	}
	if !found {
		records = append(records, model.ScoreRecord{
			GameID:      gameID,
			Username:    username,
			Score:       score,
			SubmittedAt: s.now().UTC(),
			Movement:    model.MovementNew,
		})
		outcome = "new"
	}

	after := ranking.Rank(records)
	moves := movement.Detect(before, after)
	for i := range after {
		if mv, ok := moves[after[i].Username]; ok {
			after[i].Movement = mv
			metrics.RecordMovement(string(mv))
		}
	}

	if err := s.store.SaveAll(ctx, gameID, after, version); err != nil {
		return nil, err
	}

	metrics.RecordSubmission(outcome)

	n := s.topN
	if len(after) < n {
		n = len(after)
	}
	return after[:n:n], nil
}

// Ranking returns the full ordered ranking of a game. An unknown game
// yields an empty ranking, not an error.
func (s *Service) Ranking(ctx context.Context, gameID string) ([]model.ScoreRecord, error) {
	if gameID == "" {
		return nil, ErrInvalidSubmission
	}
	records, _, err := s.store.LoadAll(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("load ranking for %s: %w", gameID, err)
	}
	return ranking.Rank(records), nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":     s.started,
		"topN":        s.topN,
		"maxAttempts": s.maxAttempts,
	}
	if s.started {
		games := s.store.Games(context.Background())
		stats["games"] = games
		metrics.UpdateGamesTotal(games)
	}
	return stats
}
