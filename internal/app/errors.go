package service

import "errors"

// Sentinel kinds for coordinator errors.
var (
	ErrInvalidSubmission = errors.New("invalid submission")
)
