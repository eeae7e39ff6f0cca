package models

import "errors"

// Application-wide standard errors
var (
	// ErrNotFound is returned whenever an entity id does not resolve.
	ErrNotFound = errors.New("resource not found")

	// ErrValidation covers missing or over-long required fields.
	ErrValidation = errors.New("invalid input data")

	// ErrStorySuspended marks a story that cannot be started right now.
	ErrStorySuspended = errors.New("story is suspended")

	// ErrNoActiveSession is returned by play operations that need an
	// established resume point.
	ErrNoActiveSession = errors.New("no active play session")

	ErrInternalServer = errors.New("internal server error")
)
