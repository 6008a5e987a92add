package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common error conditions
var (
	// ErrQueryNotFound is returned when a stored query is not found
	ErrQueryNotFound = errors.New("query not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")
)

// QueryNotFoundError represents a stored query not found error with context
type QueryNotFoundError struct {
	QueryID string
}

func (e *QueryNotFoundError) Error() string {
	return fmt.Sprintf("stored query with ID '%s' not found", e.QueryID)
}

func (e *QueryNotFoundError) Is(target error) bool {
	return target == ErrQueryNotFound
}

// NewQueryNotFoundError creates a new QueryNotFoundError
func NewQueryNotFoundError(queryID string) *QueryNotFoundError {
	return &QueryNotFoundError{QueryID: queryID}
}

// ValidationError represents an input validation error with context
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
