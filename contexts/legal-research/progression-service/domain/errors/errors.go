package errors

import "errors"

var (
	ErrInvalidInput        = errors.New("progression input is invalid")
	ErrUnknownAction       = errors.New("xp action is not recognized")
	ErrSessionNotFound     = errors.New("progress session not found")
	ErrSessionConflict     = errors.New("progress session already exists")
	ErrMissionNotFound     = errors.New("mission not found")
	ErrMissionNotReady     = errors.New("mission progress has not reached its target")
	ErrBadgeNotFound       = errors.New("badge not found")
	ErrIdempotencyConflict = errors.New("idempotency key already used with different payload")
)
