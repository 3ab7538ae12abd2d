// Package ranking orders a game's score records into a leaderboard.
package ranking

import (
	"sort"

	"github.com/okian/podium/internal/domain/model"
)

// Rank returns records ordered into the leaderboard total order:
// score descending, then submission time ascending (an earlier submission
// outranks a later one at equal score), then username ascending so that
// exact ties still order deterministically.
//
// The input slice is not modified; Rank is pure.
func Rank(records []model.ScoreRecord) []model.ScoreRecord {
	out := make([]model.ScoreRecord, len(records))
	copy(out, records)

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		if !out[i].SubmittedAt.Equal(out[j].SubmittedAt) {
			return out[i].SubmittedAt.Before(out[j].SubmittedAt)
		}
		return out[i].Username < out[j].Username
	})
	return out
}

// Position returns the zero-based index of username in an ordered sequence,
// or -1 when absent.
func Position(ordered []model.ScoreRecord, username string) int {
	for i, rec := range ordered {
		if rec.Username == username {
			return i
		}
	}
	return -1
}
