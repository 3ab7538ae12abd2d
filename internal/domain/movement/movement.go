// Package movement derives per-user rank-movement markers from two
// ranking snapshots of the same game.
package movement

import (
	"github.com/okian/podium/internal/domain/model"
)

// Detect compares the before and after ranking snapshots and returns a
// marker for every username present in after:
//
//   - absent from before            -> MovementNew
//   - index decreased               -> MovementUp
//   - index increased               -> MovementDown
//   - index unchanged               -> MovementSame
//
// Usernames present only in before produce no entry; the engine never
// removes users, so that case only arises from external cleanup.
// Detect is pure.
func Detect(before, after []model.ScoreRecord) map[string]model.Movement {
	oldPos := make(map[string]int, len(before))
	for i, rec := range before {
		oldPos[rec.Username] = i
	}

	moves := make(map[string]model.Movement, len(after))
	for newPos, rec := range after {
		old, ok := oldPos[rec.Username]
		switch {
		case !ok:
			moves[rec.Username] = model.MovementNew
		case newPos < old:
			moves[rec.Username] = model.MovementUp
		case newPos > old:
			moves[rec.Username] = model.MovementDown
		default:
			moves[rec.Username] = model.MovementSame
		}
	}
	return moves
}
