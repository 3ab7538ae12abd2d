// Package types contains common types used across the application
package types

import (
	"time"

	"github.com/okian/podium/internal/domain/model"
)

// Entry is the read shape returned to API callers: one leaderboard row
// projected from a score record.
type Entry struct {
	Username    string    `json:"username"`
	Score       int64     `json:"score"`
	SubmittedAt time.Time `json:"submitted_at"`
	Movement    string    `json:"movement"`
}

// FromRecord projects a score record onto the API shape.
func FromRecord(rec model.ScoreRecord) Entry {
	return Entry{
		Username:    rec.Username,
		Score:       rec.Score,
		SubmittedAt: rec.SubmittedAt,
		Movement:    string(rec.Movement),
	}
}

// FromRecords projects an ordered record sequence onto API entries.
func FromRecords(records []model.ScoreRecord) []Entry {
	out := make([]Entry, len(records))
	for i, rec := range records {
		out[i] = FromRecord(rec)
	}
	return out
}
