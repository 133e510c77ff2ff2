package billing

import (
	"errors"
	"fmt"
)

// ErrClaimConflict is returned by an entry store when the conditional
// invoiced-flag update touched fewer rows than expected, meaning another
// invoice run claimed some of the entries first.
var ErrClaimConflict = errors.New("time entries already claimed by another invoice")

// ValidationError reports a bad request before any side effect happened.
// It maps to HTTP 400.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// PersistenceError reports a record store failure, qualified with the
// workflow step it happened in.
type PersistenceError struct {
	Step string
	Err  error
}

func (e *PersistenceError) Error() string { return fmt.Sprintf("error %s: %v", e.Step, e.Err) }
func (e *PersistenceError) Unwrap() error { return e.Err }

// RenderError reports a document generation failure.
type RenderError struct {
	Err error
}

func (e *RenderError) Error() string { return fmt.Sprintf("error generating invoice document: %v", e.Err) }
func (e *RenderError) Unwrap() error { return e.Err }

// FileSystemError reports a directory creation or file write failure.
type FileSystemError struct {
	Step string
	Err  error
}

func (e *FileSystemError) Error() string { return fmt.Sprintf("error %s: %v", e.Step, e.Err) }
func (e *FileSystemError) Unwrap() error { return e.Err }
