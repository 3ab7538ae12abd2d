// Package model contains domain models passed between layers.
package model

import "time"

// Movement marks how a user's position changed as a result of the most
// recent submission that touched their game's ranking.
type Movement string

const (
	// MovementUnset means no submission has recomputed this record yet.
	MovementUnset Movement = ""
	// MovementNew marks a record created by its first submission.
	MovementNew Movement = "new"
	// MovementUp marks a record whose position improved.
	MovementUp Movement = "up"
	// MovementDown marks a record whose position worsened.
	MovementDown Movement = "down"
	// MovementSame marks a record whose position did not change.
	MovementSame Movement = "same"
)

// Valid reports whether m is one of the known movement tags.
func (m Movement) Valid() bool {
	switch m {
	case MovementUnset, MovementNew, MovementUp, MovementDown, MovementSame:
		return true
	}
	return false
}

// ScoreRecord is one user's best score within a game, plus the movement
// marker from the last rank recomputation. Exactly one record exists per
// (GameID, Username) pair; Score never decreases across its lifetime.
type ScoreRecord struct {
	GameID      string    `json:"game_id"`
	Username    string    `json:"username"`
	Score       int64     `json:"score"`
	SubmittedAt time.Time `json:"submitted_at"`
	Movement    Movement  `json:"movement"`
}
