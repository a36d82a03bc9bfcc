// Package derrors defines the error taxonomy shared by services, stores and
// the HTTP layer. Errors carry a machine-readable Code so transports can map
// them to status codes without string matching.
package derrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies a domain error.
type Code string

const (
	// CodeValidation marks rejected input: unsupported format, missing
	// filename, malformed request bodies. Never retried.
	CodeValidation Code = "validation"

	// CodeConversion marks a failed or timed-out external conversion. The
	// message carries the engine's diagnostic output.
	CodeConversion Code = "conversion"

	// CodeNotFound marks a lookup miss for a document, owner, annotation
	// target or share token.
	CodeNotFound Code = "not_found"

	// CodeForbidden marks an ownership mismatch. Distinct from CodeNotFound
	// so "doesn't exist" is never conflated with "not yours".
	CodeForbidden Code = "forbidden"

	// CodeStorage marks a filesystem or persistence failure. Any partial
	// state from the same operation is rolled back before this surfaces.
	CodeStorage Code = "storage"

	// CodeInternal is the fallback for everything else.
	CodeInternal Code = "internal"
)

// Error is a domain error with a classification code.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// New creates a domain error with the given code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates a domain error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error, preserving the
// cause for errors.Is/As chains.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, cause: err}
}

// HasCode reports whether err or any error in its chain carries the code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// CodeOf extracts the code from err, defaulting to CodeInternal for
// unclassified errors.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// ToHTTPStatus maps a code to its HTTP status.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeValidation:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeForbidden:
		return http.StatusForbidden
	case CodeConversion, CodeStorage, CodeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
