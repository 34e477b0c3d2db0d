package models

import (
	"errors"
	"fmt"
)

// Error taxonomy shared across the core. Handlers map these to HTTP
// status codes; everything else is treated as an internal failure.
var (
	// ErrInvalidInput marks malformed or out-of-range caller input.
	// Nothing is persisted when this is returned.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound marks a referenced entity that must exist but doesn't.
	ErrNotFound = errors.New("not found")
)

// InvalidInputf wraps ErrInvalidInput with a descriptive message.
func InvalidInputf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
