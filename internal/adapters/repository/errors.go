package repository

import "errors"

// Sentinel kinds for score store errors.
var (
	ErrVersionConflict = errors.New("game version conflict")
	ErrUnavailable     = errors.New("score store unavailable")
)
