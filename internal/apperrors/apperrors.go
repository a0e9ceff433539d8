// internal/apperrors/apperrors.go
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is a stable, client-facing error code. Handlers translate codes to HTTP
// statuses; services never import net/http.
type Code string

const (
	CodeValidation        Code = "VALIDATION_ERROR"
	CodeUnauthorized      Code = "UNAUTHORIZED"
	CodeForbidden         Code = "FORBIDDEN"
	CodeNotFound          Code = "NOT_FOUND"
	CodeConflict          Code = "CONFLICT"
	CodeInvalidTransition Code = "INVALID_TRANSITION"
	CodeAmountMismatch    Code = "AMOUNT_MISMATCH"
	CodeNothingToSettle   Code = "NOTHING_TO_SETTLE"
	CodeInternal          Code = "INTERNAL_ERROR"
)

type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Wrap(code Code, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

func Validation(format string, args ...interface{}) *Error {
	return New(CodeValidation, fmt.Sprintf(format, args...))
}

func Forbidden(message string) *Error {
	return New(CodeForbidden, message)
}

func NotFound(resource string) *Error {
	return New(CodeNotFound, resource+" not found")
}

func Conflict(message string) *Error {
	return New(CodeConflict, message)
}

func InvalidTransition(entity, from, to string) *Error {
	return New(CodeInvalidTransition, fmt.Sprintf("%s cannot transition from %s to %s", entity, from, to))
}

func AmountMismatch(expected, got int64) *Error {
	return New(CodeAmountMismatch, fmt.Sprintf("expected amount %d, got %d", expected, got))
}

func NothingToSettle() *Error {
	return New(CodeNothingToSettle, "no settleable applications in the requested set")
}

func Internal(err error) *Error {
	return Wrap(CodeInternal, "internal error", err)
}

// CodeOf extracts the Code from err, or CodeInternal for unclassified errors.
func CodeOf(err error) Code {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code Code) bool {
	return CodeOf(err) == code
}

// HTTPStatus maps an error code to its HTTP status.
func HTTPStatus(code Code) int {
	switch code {
	case CodeValidation, CodeAmountMismatch, CodeNothingToSettle:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict, CodeInvalidTransition:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
