package ecode

import (
	"errors"
	"fmt"
)

const (
	requiredMsg    = "required"
	invalidMsg     = "invalid"
	notExistMsg    = "does not exist"
	unavailableMsg = "unavailable"
)

// Error is an error carrying a business code.
type Error struct {
	Code    int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// New creates an error with code and message.
func New(code int, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap wraps err with code and message.
func Wrap(code int, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// Invalid returns an InvalidQuery error for field.
func Invalid(field, reason string) *Error {
	msg := FieldIsInvalid(field)
	if reason != "" {
		msg += ": " + reason
	}
	return New(InvalidQuery, msg)
}

// Missing returns a NotFound error for the named resource.
func Missing(k ...string) *Error {
	return New(NotFound, NotExist(k...))
}

// Unavailable wraps a backend failure of the named operation.
func Unavailable(op string, err error) *Error {
	return Wrap(BackendUnavailable, fmt.Sprintf("%s %s", op, unavailableMsg), err)
}

// CodeOf returns the business code carried by err, ServerErr for unknown
// errors and OK for nil.
func CodeOf(err error) int {
	if err == nil {
		return OK
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ServerErr
}

// IsNotFound reports whether err carries NotFound.
func IsNotFound(err error) bool { return err != nil && CodeOf(err) == NotFound }

// IsInvalid reports whether err carries InvalidQuery.
func IsInvalid(err error) bool { return err != nil && CodeOf(err) == InvalidQuery }

// IsUnavailable reports whether err carries BackendUnavailable.
func IsUnavailable(err error) bool { return err != nil && CodeOf(err) == BackendUnavailable }

// FieldIsRequired returns field required message
func FieldIsRequired(k ...string) string {
	if len(k) > 0 {
		return fmt.Sprintf("%s %s", k[0], requiredMsg)
	}
	return requiredMsg
}

// FieldIsInvalid returns field invalid message
func FieldIsInvalid(k ...string) string {
	if len(k) > 0 {
		return fmt.Sprintf("%s %s", k[0], invalidMsg)
	}
	return invalidMsg
}

// NotExist returns not exist message
func NotExist(k ...string) string {
	if len(k) > 0 {
		return fmt.Sprintf("%s %s", k[0], notExistMsg)
	}
	return notExistMsg
}
