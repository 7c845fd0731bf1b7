package model

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when an operation targets a missing id.
	ErrNotFound = errors.New("not found")
	// ErrValidation matches every *ValidationError via errors.Is.
	ErrValidation = errors.New("validation failed")
	// ErrStorage matches every *StorageError via errors.Is.
	ErrStorage = errors.New("storage failure")
)

var (
	// ErrSessionCompleted rejects writes to a completed session.
	ErrSessionCompleted = &ValidationError{Reason: "session is already completed"}
	// ErrQueueExhausted rejects attempts beyond the session's word queue.
	ErrQueueExhausted = &ValidationError{Reason: "session has no words left to attempt"}
)

// ValidationError reports malformed input with a specific reason.
type ValidationError struct {
	Reason string
}

// NewValidationError builds a ValidationError from a format string.
func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// Is makes errors.Is(err, ErrValidation) true.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// StorageError wraps a failure of the underlying storage engine.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

// Unwrap returns the engine error.
func (e *StorageError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrStorage) true.
func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}
