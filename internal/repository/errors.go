package repository

import "errors"

var (
	// ErrNotFound is returned when a profile, session or wishlist item
	// does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a conditional claim or unclaim
	// update matched no row: another actor already holds the item, or
	// the item left the expected state.
	ErrConflict = errors.New("conditional update conflict")
)
