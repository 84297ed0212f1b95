package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrNotFound is returned by mutations when no row matched
	ErrNotFound = errors.New("not found")

	// ErrValidation is matched by every *ValidationError
	ErrValidation = errors.New("validation failed")

	// ErrUnrecognizedDestination is returned when a scan cannot be resolved to a destination
	ErrUnrecognizedDestination = errors.New("unrecognized destination")

	// ErrStoreFailure is matched by every *StoreError
	ErrStoreFailure = errors.New("store failure")

	// ErrMalformedVariantID is returned when a variant global id has no numeric id
	ErrMalformedVariantID = errors.New("malformed variant id")

	// ErrPasswordMismatch is returned when password and confirmation differ
	ErrPasswordMismatch = errors.New("password and password confirmation do not match")

	// ErrAccountExists is returned when an account with the same email is already registered
	ErrAccountExists = errors.New("account already exists")
)

// ValidationError describes malformed or missing input fields
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError creates a validation error for a single field
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		msgs = append(msgs, fmt.Sprintf("%s: %s", field, msg))
	}
	sort.Strings(msgs)
	return "validation failed: " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// StoreError reports a connectivity or query failure of a store operation
type StoreError struct {
	Op  string
	Err error
}

// NewStoreError wraps err as the failure of op
func NewStoreError(op string, err error) *StoreError {
	return &StoreError{Op: op, Err: err}
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func (e *StoreError) Is(target error) bool {
	return target == ErrStoreFailure
}
