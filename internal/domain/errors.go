package domain

import (
	"errors"
	"fmt"
)

var (
	ErrResolutionFailed    = errors.New("dependency resolution failed")
	ErrEnvironmentNotFound = errors.New("environment not found")
	ErrSnapshotUnavailable = errors.New("installed packages unavailable")
	ErrExecutionFailed     = errors.New("package manager execution failed")
	ErrUnknownFormat       = errors.New("unknown format")
	ErrDuplicatePackage    = errors.New("duplicate package")
	ErrInvalidRecord       = errors.New("invalid package record")
)

// ConflictError carries the analyzer's description of an unresolved graph.
type ConflictError struct {
	Description string
}

func (e *ConflictError) Error() string {
	return ErrResolutionFailed.Error()
}

func (e *ConflictError) Unwrap() error {
	return ErrResolutionFailed
}

// ExecutionError reports the package manager phase that failed. Code is the
// process status; Err is set when the process could not be run at all.
type ExecutionError struct {
	Phase Phase
	Code  int
	Err   error
}

func (e *ExecutionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s packages: exit status %d: %v", e.Phase, e.Code, e.Err)
	}
	return fmt.Sprintf("%s packages: exit status %d", e.Phase, e.Code)
}

func (e *ExecutionError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrExecutionFailed, e.Err}
	}
	return []error{ErrExecutionFailed}
}
