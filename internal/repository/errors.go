package repository

import "errors"

var (
	// ErrInvalidRecord is returned when a stored row cannot be turned into an entity.
	ErrInvalidRecord = errors.New("invalid record")
)
