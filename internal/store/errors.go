package store

import "errors"

var (
	// ErrConflict reports a write that would collide with another schedule
	// block, a blocked interval or an upcoming booking.
	ErrConflict = errors.New("schedule conflict")
	// ErrNotFound reports a missing chef, dish, menu or schedule record.
	ErrNotFound = errors.New("not found")
)
