package postgres

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrInvalidUUID marks malformed entity identifiers.
var ErrInvalidUUID = errors.New("invalid UUID format")

// IsUUID validates that the given string is a valid UUID.
func IsUUID(u string) error {
	if u == "" {
		return fmt.Errorf("%w: UUID cannot be empty", ErrInvalidUUID)
	}

	if _, err := uuid.Parse(u); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidUUID, err)
	}

	return nil
}

// NewUUID generates a new UUID string.
func NewUUID() string {
	return uuid.New().String()
}
