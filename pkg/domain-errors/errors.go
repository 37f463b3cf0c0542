// Package domainerrors defines the error taxonomy shared by services and the
// HTTP boundary. Services return *Error values carrying a Code; transport code
// maps the Code to a status with ToHTTPStatus and never inspects messages.
package domainerrors

import (
	"context"
	"errors"
	"net/http"
)

// Code classifies a domain failure.
type Code string

const (
	CodeBadRequest      Code = "bad_request"
	CodeValidation      Code = "validation_error"
	CodeConflict        Code = "conflict"
	CodeNotFound        Code = "not_found"
	CodeUnauthorized    Code = "unauthorized"
	CodeInvalidToken    Code = "invalid_token"
	CodeForbidden       Code = "forbidden"
	CodeTooManyRequests Code = "too_many_requests"
	CodePaymentProvider Code = "payment_provider_error"
	CodeTimeout         Code = "timeout"
	CodeInternal        Code = "internal_error"
)

// TimeoutMessage is returned when a request runs out of time.
const TimeoutMessage = "Request timed out"

// Error is a coded domain error. Err holds the underlying cause, if any, and is
// only ever logged.
type Error struct {
	Code    Code
	Message string
	Err     error
}

// New creates a coded error without an underlying cause.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and a safe message to an underlying error.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// WrapOrTimeout is Wrap, except that an expired deadline anywhere in err's
// chain yields CodeTimeout so the caller sees 504 instead of a generic 500.
func WrapOrTimeout(err error, code Code, message string) *Error {
	if errors.Is(err, context.DeadlineExceeded) {
		return Wrap(err, CodeTimeout, TimeoutMessage)
	}
	return Wrap(err, code, message)
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error with the same code. An empty target message acts
// as a wildcard so callers can match on code alone.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if e.Code != t.Code {
		return false
	}
	return t.Message == "" || t.Message == e.Message
}

// Is reports whether err carries the given code anywhere in its chain.
func Is(err error, code Code) bool {
	return HasCode(err, code)
}

// HasCode reports whether err carries the given code anywhere in its chain.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// CodeOf returns the code of the first *Error in the chain, or CodeInternal.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// ToHTTPStatus maps a code to its HTTP status. Conflicts are reported as 400 and
// malformed tokens as 400 to stay compatible with the existing frontend.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeBadRequest, CodeValidation, CodeConflict, CodeInvalidToken:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeTooManyRequests:
		return http.StatusTooManyRequests
	case CodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// IsServerFault reports whether the code represents a failure the client
// cannot fix. The authored message is still returned; wrapped causes never are.
func IsServerFault(code Code) bool {
	return ToHTTPStatus(code) >= http.StatusInternalServerError
}
