// Package errors provides structured error types for canopy.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the editing session, storage and CLI
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// The codes mirror the failure classes of the editor core:
//   - VALIDATION_ERROR: a single entity was rejected (duplicate id, malformed
//     node record). Producers log and continue.
//   - PARSE_ERROR: a payload could not be decoded. Aborts that one load.
//   - LIMIT_EXCEEDED: a node-count or payload-size cap was hit. Aborts the
//     load and leaves the current model unchanged.
//
// Remaining codes (NOT_FOUND, INVALID_*, INTERNAL_ERROR, ...) are used by the
// storage backends and the CLI.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeLimitExceeded, "too many nodes: %d", n)
//	if errors.Is(err, errors.ErrCodeLimitExceeded) {
//	    // Tell the user, keep the current diagram
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeParse, origErr, "decode %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Core editing errors
	ErrCodeValidation    Code = "VALIDATION_ERROR"
	ErrCodeParse         Code = "PARSE_ERROR"
	ErrCodeLimitExceeded Code = "LIMIT_EXCEEDED"

	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidName   Code = "INVALID_NAME"
	ErrCodeInvalidPath   Code = "INVALID_PATH"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeNodeNotFound Code = "NODE_NOT_FOUND"

	// Storage errors
	ErrCodeStorage Code = "STORAGE_ERROR"
	ErrCodeTimeout Code = "TIMEOUT"

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

// LimitError provides the offending size for LIMIT_EXCEEDED failures.
type LimitError struct {
	What  string // "nodes", "payload bytes"
	Limit int
	Got   int
}

// Error implements the error interface.
func (e *LimitError) Error() string {
	return fmt.Sprintf("%s limit exceeded: %d > %d", e.What, e.Got, e.Limit)
}

// Code returns the error code for this error type.
func (e *LimitError) Code() Code {
	return ErrCodeLimitExceeded
}

// Limit wraps a LimitError in a coded Error so both Is and errors.As work.
func Limit(what string, limit, got int) *Error {
	le := &LimitError{What: what, Limit: limit, Got: got}
	return Wrap(ErrCodeLimitExceeded, le, "too many %s (max %d)", what, limit)
}
