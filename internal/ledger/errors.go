package ledger

import (
	"errors"
	"strconv"
	"strings"
)

var (
	// ErrNotFound is returned when a well-formed id matches no stored entity.
	ErrNotFound = errors.New("entity not found")

	// ErrInvalidID is returned when an id is not a non-negative integer.
	ErrInvalidID = errors.New("id must be a non-negative integer")

	// ErrDuplicateID is returned when two entities of the same kind share an id.
	ErrDuplicateID = errors.New("duplicate id")
)

// ParseID converts a textual id into an int, rejecting anything that is not a
// non-negative integer.
func ParseID(raw string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, ErrInvalidID
	}
	if err := validateID(id); err != nil {
		return 0, err
	}
	return id, nil
}

func validateID(id int) error {
	if id < 0 {
		return ErrInvalidID
	}
	return nil
}
