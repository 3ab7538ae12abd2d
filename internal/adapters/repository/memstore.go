package repository

import (
	"context"
	"sync"
	"time"

	"github.com/okian/podium/internal/domain/model"
	"github.com/okian/podium/pkg/metrics"
)

// gameState is one game's record set plus its CAS version.
type gameState struct {
	version uint64
	records []model.ScoreRecord
}

// MemStore is the default in-memory Store implementation. Record sets are
// copied on every load and save, so callers can mutate what they get back.
type MemStore struct {
	mu    sync.RWMutex
	games map[string]*gameState
}

// NewMemStore constructs an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{games: make(map[string]*gameState)}
}

// LoadAll implements Store.LoadAll.
func (s *MemStore) LoadAll(ctx context.Context, gameID string) ([]model.ScoreRecord, uint64, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreLoadLatency(float64(time.Since(start).Milliseconds()))
	}()

	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.games[gameID]
	if !ok {
		return nil, 0, nil
	}
	out := make([]model.ScoreRecord, len(g.records))
	copy(out, g.records)
	return out, g.version, nil
}

// SaveAll implements Store.SaveAll.
func (s *MemStore) SaveAll(ctx context.Context, gameID string, records []model.ScoreRecord, version uint64) error {
	start := time.Now()
	defer func() {
		metrics.RecordStoreSaveLatency(float64(time.Since(start).Milliseconds()))
	}()

	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.games[gameID]
	if !ok {
		if version != 0 {
			metrics.RecordStoreConflict()
			return ErrVersionConflict
		}
		g = &gameState{}
		s.games[gameID] = g
	} else if g.version != version {
		metrics.RecordStoreConflict()
		return ErrVersionConflict
	}

	g.records = make([]model.ScoreRecord, len(records))
	copy(g.records, records)
	g.version++
	metrics.UpdateGamesTotal(len(s.games))
	return nil
}

// Games implements Store.Games.
func (s *MemStore) Games(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.games)
}
