package services

import (
	"errors"
	"fmt"
)

// Error taxonomy. Handlers map these onto the JSON envelope and HTTP status;
// anything else is a storage-level failure reported generically with the
// detail logged server-side only.
var (
	// ErrAllocationExhausted means every tracking-code attempt collided.
	// Fatal for the request; the whole creation operation is safe to retry.
	ErrAllocationExhausted = errors.New("failed to allocate a unique tracking code")

	// ErrInvalidCredentials is deliberately generic: it never distinguishes
	// a wrong password from an unknown email.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrEmailTaken rejects duplicate registration.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidTransition rejects a lifecycle move that does not advance.
	ErrInvalidTransition = errors.New("invalid status transition")
)

// ValidationError reports bad or missing input, naming the offending field.
// Validation never touches storage.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("invalid field: %s", e.Field)
}

func missingField(field string) *ValidationError {
	return &ValidationError{Field: field, Message: "Missing field: " + field}
}

// IsValidationError reports whether err is (or wraps) a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
