// Package errors provides structured error types for pageflow.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI, the HTTP API and the library
//   - Machine-readable error codes for programmatic handling
//   - Error wrapping with context preservation
//
// # Error Codes
//
// The pagination engine reports three failure classes:
//   - LAYOUT_DEADLOCK: no forward progress is possible; an internal invariant
//     was violated. Never retried.
//   - COLLABORATOR_FAILURE: box resolution, line fitting or a render callable
//     failed. The whole document aborts.
//   - DYNAMIC_CONTENT_DIVERGENCE: page-count-dependent content changed height
//     after the final count was known. Reported as a warning, never returned.
//
// Input problems use the INVALID_* codes.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeLayoutDeadlock, "page %d made no progress", n)
//	if errors.Is(err, errors.ErrCodeLayoutDeadlock) {
//	    // Internal bug, surface immediately
//	}
//
//	// Wrap collaborator errors
//	err := errors.Wrap(errors.ErrCodeCollaborator, origErr, "resolve boxes")
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidDocument Code = "INVALID_DOCUMENT"
	ErrCodeInvalidFormat   Code = "INVALID_FORMAT"
	ErrCodeInvalidConfig   Code = "INVALID_CONFIG"

	// Pagination errors
	ErrCodeLayoutDeadlock Code = "LAYOUT_DEADLOCK"
	ErrCodeCollaborator   Code = "COLLABORATOR_FAILURE"
	ErrCodeDivergence     Code = "DYNAMIC_CONTENT_DIVERGENCE"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Collaborator wraps err as a COLLABORATOR_FAILURE unless it already carries
// a code, in which case err is returned unchanged. Nil stays nil.
func Collaborator(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	if GetCode(err) != "" {
		return err
	}
	return Wrap(ErrCodeCollaborator, err, format, args...)
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
