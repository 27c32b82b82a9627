package booking

import "errors"

var (
	ErrValidation      = errors.New("validation error")
	ErrInvalidDuration = errors.New("duration must be positive")
	ErrUnknownSlotType = errors.New("unknown slot type")

	// ErrNotAvailable means commit-time re-validation found an overlap: the
	// candidate went stale. The caller re-queries availability and retries.
	ErrNotAvailable = errors.New("slot no longer available")
)
