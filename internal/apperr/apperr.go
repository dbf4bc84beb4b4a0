// Package apperr defines the coded errors every handler converts to an
// HTTP status and a JSON {"msg": ...} body at its boundary.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies an application fault.
type Code int

const (
	CodeInternal Code = iota
	CodeValidation
	CodeNotFound
	CodeConflict
	CodeUnauthorized
	CodeExpired
	CodeForbidden
)

// Error is a coded application error with a caller-facing message.
type Error struct {
	Code Code
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// New creates a coded error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches a cause to a coded error. The cause is logged, never
// echoed to the caller.
func Wrap(code Code, err error, format string, args ...any) *Error {
	return &Error{Code: code, Msg: fmt.Sprintf(format, args...), Err: err}
}

// Validation is shorthand for New(CodeValidation, ...).
func Validation(format string, args ...any) *Error {
	return New(CodeValidation, format, args...)
}

// NotFound is shorthand for New(CodeNotFound, ...).
func NotFound(format string, args ...any) *Error {
	return New(CodeNotFound, format, args...)
}

// Conflict is shorthand for New(CodeConflict, ...).
func Conflict(format string, args ...any) *Error {
	return New(CodeConflict, format, args...)
}

// Forbidden is shorthand for New(CodeForbidden, ...).
func Forbidden(format string, args ...any) *Error {
	return New(CodeForbidden, format, args...)
}

// CodeOf extracts the code from err, defaulting to CodeInternal.
func CodeOf(err error) Code {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

// Message returns the caller-facing message for err. Internal faults get
// a generic message so raw error detail never reaches the client.
func Message(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) && appErr.Code != CodeInternal {
		return appErr.Msg
	}
	return "Something went wrong, please try again later"
}

// HTTPStatus maps a code to its HTTP status. Conflicts map to 400 to
// preserve the responses clients already depend on.
func HTTPStatus(code Code) int {
	switch code {
	case CodeValidation, CodeConflict:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeUnauthorized, CodeExpired:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}
