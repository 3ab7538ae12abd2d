// Package repository defines the score store interface and errors.
package repository

import (
	"context"

	"github.com/okian/podium/internal/domain/model"
)

// Store provides durable access to the per-game record sets.
//
// Each game carries an opaque version that changes on every successful
// SaveAll. Callers implement the submission sequence optimistically:
// LoadAll, mutate, SaveAll with the loaded version, and retry the whole
// sequence when SaveAll reports ErrVersionConflict. Versions are
// independent per game, so submissions for different games never contend.
type Store interface {
	// LoadAll returns every record of a game together with the game's
	// current version. An unknown game yields an empty set and version 0.
	LoadAll(ctx context.Context, gameID string) ([]model.ScoreRecord, uint64, error)

	// SaveAll atomically replaces a game's record set. The write succeeds
	// only if version still matches the stored one; otherwise it returns
	// ErrVersionConflict and leaves the game untouched.
	SaveAll(ctx context.Context, gameID string, records []model.ScoreRecord, version uint64) error

	// Games returns the number of games with at least one record.
	Games(ctx context.Context) int
}
