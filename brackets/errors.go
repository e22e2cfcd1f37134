package brackets

import "errors"

var (
	// ErrInsufficientEntrants is returned when fewer than two entrants are supplied.
	ErrInsufficientEntrants = errors.New("not enough entrants to build a bracket (minimum 2)")
	// ErrInvalidSlot means a forward link names a slot other than A or B.
	ErrInvalidSlot = errors.New("forward link names an invalid slot")
	// ErrMatchNotFound is returned when a linked downstream match cannot be loaded.
	ErrMatchNotFound = errors.New("match not found")
)
