package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrStaleStatus is returned when a guarded status update matched no
	// row, meaning a concurrent transition won the race.
	ErrStaleStatus = errors.New("entity status changed concurrently")
)
