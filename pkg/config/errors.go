package config

import (
	"errors"
	"fmt"
)

var (
	// ErrFieldRequired is returned when a required configuration field is missing or empty
	ErrFieldRequired = errors.New("field is required")
	// ErrInvalidValue is returned when a configuration field has a value outside the allowed set
	ErrInvalidValue = errors.New("invalid value")
)

// ValidationError reports a configuration field that failed validation,
// identified by its dotted path (e.g. "azure.temporary_storage.account_name").
type ValidationError struct {
	Path string
	Err  error
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error for errors.Is checks
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// requireString returns a ValidationError if value is empty
func requireString(path, value string) error {
	if value == "" {
		return &ValidationError{Path: path, Err: ErrFieldRequired}
	}

	return nil
}
