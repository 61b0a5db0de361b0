// Package errors provides structured error types for the assetforge application.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across CLI and server
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Construction and input validation failures
//   - *_SOURCE: Asset source specification failures
//   - FETCH_* / TIMEOUT: Network-related errors
//   - CIRCULAR_DEPENDENCY: Dependency resolution failure
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidSuffix, "asset name must end in .js or .css: %s", name)
//	if errors.Is(err, errors.ErrCodeInvalidSuffix) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeFetchFailed, origErr, "fetch %s", url)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Construction errors, raised synchronously when an asset or bundle
	// is assembled.
	ErrCodeInvalidName       Code = "INVALID_NAME"
	ErrCodeInvalidSuffix     Code = "INVALID_SUFFIX"
	ErrCodeAmbiguousSource   Code = "AMBIGUOUS_SOURCE"
	ErrCodeMissingSource     Code = "MISSING_SOURCE"
	ErrCodeUnsupportedSource Code = "UNSUPPORTED_SOURCE"
	ErrCodeNotAnAsset        Code = "NOT_AN_ASSET"
	ErrCodeNestedBundle      Code = "NESTED_BUNDLE"
	ErrCodeNamespaceMismatch Code = "NAMESPACE_MISMATCH"

	// Materialization errors, raised on first content access.
	ErrCodeSourceFunc  Code = "SOURCE_FUNCTION_FAILED"
	ErrCodeFetchFailed Code = "FETCH_FAILED"
	ErrCodeTimeout     Code = "TIMEOUT"

	// Resolution errors.
	ErrCodeCircularDependency Code = "CIRCULAR_DEPENDENCY"

	// Manifest and lookup errors.
	ErrCodeInvalidManifest Code = "INVALID_MANIFEST"
	ErrCodeNotFound        Code = "NOT_FOUND"

	// Internal errors.
	ErrCodeInternal Code = "INTERNAL_ERROR"
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
