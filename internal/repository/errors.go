package repository

import "errors"

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when an insert or update violates a unique
	// constraint (email, brand name, brand+model pair).
	ErrDuplicate = errors.New("record already exists")
)
