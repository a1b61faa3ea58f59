package domain

import "errors"

var (
	// ErrInvalidCoordinate rejects lat outside [-90,90] or lng outside
	// [-180,180] before anything is written.
	ErrInvalidCoordinate = errors.New("coordinate out of range")

	// ErrInvalidRadius rejects non-positive search radii.
	ErrInvalidRadius = errors.New("radius must be positive")

	// ErrStorageUnavailable wraps persistence failures; callers must not
	// broadcast a position update when they see it.
	ErrStorageUnavailable = errors.New("storage unavailable")
)
