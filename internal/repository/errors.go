package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrConflict is returned when a write loses against the current state of a
	// row, either a failed compare-and-swap or a row still referenced elsewhere.
	ErrConflict = errors.New("entity conflict")
)
