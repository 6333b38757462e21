package db

import "errors"

var (
	// ErrNotFound is returned when a lookup by key matches no record
	ErrNotFound = errors.New("record not found")

	// ErrConflict is returned when a conditional update finds the record in an
	// unexpected state
	ErrConflict = errors.New("record state conflict")
)
