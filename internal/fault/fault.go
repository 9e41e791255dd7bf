// Package fault defines the error taxonomy shared by every layer.
package fault

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks a rejected operation: a required field is missing or out of range.
	// No state is mutated when it is returned.
	ErrValidation = errors.New("validation failed")

	// ErrFormat marks a backup archive that is missing a member or holds unparseable content.
	ErrFormat = errors.New("invalid backup format")

	// ErrStorage marks a failure of the persistence medium.
	ErrStorage = errors.New("storage fault")

	// ErrEncoding marks a failure to build or decompress an archive.
	ErrEncoding = errors.New("archive encoding fault")

	// ErrNotFound is returned when a record or key does not exist.
	ErrNotFound = errors.New("not found")
)

// ValidationError reports which field was rejected and why.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Is lets errors.Is(err, ErrValidation) match any ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Invalid builds a ValidationError.
func Invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// Storage wraps err as a storage fault for the given operation.
func Storage(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorage, op, err)
}
