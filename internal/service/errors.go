package service

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is returned when input validation fails.
	// Every *ValidationError matches it with errors.Is.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound is returned for unknown documents, keywords and sessions.
	ErrNotFound = errors.New("not found")
	// ErrExternalService is returned when the embedder, vector store or
	// generator fails or times out.
	ErrExternalService = errors.New("external service error")
)

// ValidationError reports a rejected request field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field %s: %s", e.Field, e.Message)
}

// Is makes a ValidationError match ErrInvalidInput.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// WrapError wraps an error with additional context.
func WrapError(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}
