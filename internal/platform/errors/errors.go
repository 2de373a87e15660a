package apperrors

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("not found")
	ErrNoCachedData          = errors.New("no cached activity data")
	ErrIdentityUnavailable   = errors.New("student identity unavailable")
	ErrSyncAlreadyRunning    = errors.New("a sync cycle is already running")
	ErrUnexpectedPayloadType = errors.New("unexpected response payload")
)
