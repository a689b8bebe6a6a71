// Package domainerrors provides code-tagged errors shared across services and
// transports. Services return these so handlers can translate them into HTTP
// responses without inspecting error strings.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies an error for transport-level translation.
type Code string

const (
	CodeBadRequest     Code = "bad_request"
	CodeValidation     Code = "validation_failed"
	CodeNotFound       Code = "not_found"
	CodeRecordTooLarge Code = "record_too_large"
	CodeEncoding       Code = "encoding_failed"
	CodeInternal       Code = "internal_error"
)

// Error is a domain error carrying a classification code, an optional field
// attribution for validation failures, and an optional wrapped cause.
type Error struct {
	Code    Code
	Message string
	Field   string
	cause   error
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s: %s", e.Code, e.Field, e.Message)
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
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

// NewField creates a validation error attributed to a single input field.
func NewField(field, reason string) *Error {
	return &Error{Code: CodeValidation, Message: reason, Field: field}
}

// Wrap annotates an underlying error with a code and message while keeping the
// cause reachable through errors.Unwrap.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, cause: err}
}

// Is reports whether err (or anything it wraps) is a domain error with the
// given code.
func Is(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// HasCode is an alias of Is kept for call-site readability in conditionals.
func HasCode(err error, code Code) bool { return Is(err, code) }

// FieldOf returns the field attribution of a validation error, or "" when the
// error is not field-attributed.
func FieldOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Field
	}
	return ""
}

// MessageOf returns the human-readable message of a domain error, or the plain
// Error() text for foreign errors.
func MessageOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	if err != nil {
		return err.Error()
	}
	return ""
}

// ToHTTPStatus maps an error code to the HTTP status the boundary should emit.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeBadRequest:
		return http.StatusBadRequest
	case CodeValidation:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeRecordTooLarge:
		return http.StatusUnprocessableEntity
	case CodeEncoding:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
