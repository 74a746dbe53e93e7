// Package errors defines the coded error type the whole API speaks. Every
// error that reaches a client carries a Code, and the Code alone decides the
// HTTP status, retryability and the fallback message shown to shoppers.
package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
)

// Code identifies an error class. Codes are part of the API contract and are
// stable across releases.
type Code string

const (
	CodeValidation    Code = "VALIDATION_ERROR"
	CodeUnauthorized  Code = "UNAUTHORIZED"
	CodeForbidden     Code = "FORBIDDEN"
	CodeNotFound      Code = "NOT_FOUND"
	CodeConflict      Code = "CONFLICT"
	CodeStateConflict Code = "STATE_CONFLICT"
	CodeIdempotency   Code = "IDEMPOTENCY_KEY_REUSED"
	CodeRateLimit     Code = "RATE_LIMIT_EXCEEDED"
	CodeInternal      Code = "INTERNAL_ERROR"
	CodeDependency    Code = "DEPENDENCY_ERROR"
)

// Metadata describes how a Code presents over HTTP. PublicMessage is the
// client-safe fallback used when no safer per-error message applies;
// DetailsAllowed gates whether structured details may leave the server.
type Metadata struct {
	HTTPStatus     int
	Retryable      bool
	PublicMessage  string
	DetailsAllowed bool
}

const (
	retryable   = true
	withDetails = true
)

var metadataByCode = map[Code]Metadata{
	CodeValidation:    meta(http.StatusBadRequest, !retryable, withDetails, "request validation failed"),
	CodeUnauthorized:  meta(http.StatusUnauthorized, !retryable, !withDetails, "sign in to continue"),
	CodeForbidden:     meta(http.StatusForbidden, !retryable, !withDetails, "you do not have access to this resource"),
	CodeNotFound:      meta(http.StatusNotFound, !retryable, !withDetails, "requested resource does not exist"),
	CodeConflict:      meta(http.StatusConflict, !retryable, !withDetails, "request conflicts with existing data"),
	CodeStateConflict: meta(http.StatusUnprocessableEntity, !retryable, withDetails, "operation not allowed in the current state"),
	CodeIdempotency:   meta(http.StatusConflict, !retryable, withDetails, "idempotency key already used"),
	CodeRateLimit:     meta(http.StatusTooManyRequests, !retryable, !withDetails, "too many attempts, try again later"),
	CodeInternal:      meta(http.StatusInternalServerError, retryable, !withDetails, "something went wrong"),
	CodeDependency:    meta(http.StatusServiceUnavailable, retryable, withDetails, "a backing service is unavailable"),
}

func meta(status int, canRetry, detailsOK bool, msg string) Metadata {
	return Metadata{
		HTTPStatus:     status,
		Retryable:      canRetry,
		PublicMessage:  msg,
		DetailsAllowed: detailsOK,
	}
}

// MetadataFor resolves a Code to its presentation. Unknown codes collapse to
// CodeInternal so a typo can never leak a raw message or a surprising status.
func MetadataFor(code Code) Metadata {
	if m, ok := metadataByCode[code]; ok {
		return m
	}
	return metadataByCode[CodeInternal]
}

// Error is the coded error carried through the service and controller layers.
// The zero-value-safe accessors let callers chain without nil checks.
type Error struct {
	code    Code
	message string
	details any
	cause   error
}

// New builds a coded error with an operator-facing message.
func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

// Wrap attaches a code and context message to an underlying cause. The cause
// stays reachable through errors.Is and errors.As.
func Wrap(code Code, err error, message string) *Error {
	if err == nil {
		return New(code, message)
	}
	return &Error{code: code, message: message, cause: err}
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeInternal
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

func (e *Error) Details() any {
	if e == nil {
		return nil
	}
	return e.details
}

// WithDetails attaches structured client-facing details. Whether they are
// actually emitted depends on the code's DetailsAllowed flag.
func (e *Error) WithDetails(details any) *Error {
	if e == nil {
		return nil
	}
	e.details = details
	return e
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// As digs the first coded error out of a chain, or nil when there is none.
func As(err error) *Error {
	if err == nil {
		return nil
	}
	var typed *Error
	if stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}
