// Package apperr is the error taxonomy shared by every service layer.
// Handlers map a Kind to an HTTP status; causes are kept for logs and
// never shown to callers.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	KindValidation    Kind = "VALIDATION"
	KindSelfReference Kind = "SELF_REFERENCE"
	KindNotFound      Kind = "NOT_FOUND"
	KindForbidden     Kind = "FORBIDDEN"
	KindAlreadyExists Kind = "ALREADY_EXISTS"
	KindNotFollowing  Kind = "NOT_FOLLOWING"
	KindInternal      Kind = "INTERNAL"
)

type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

func New(kind Kind, message string) error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, cause error) error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

func Validation(msg string) error    { return New(KindValidation, msg) }
func SelfReference(msg string) error { return New(KindSelfReference, msg) }
func NotFound(msg string) error      { return New(KindNotFound, msg) }
func Forbidden(msg string) error     { return New(KindForbidden, msg) }
func AlreadyExists(msg string) error { return New(KindAlreadyExists, msg) }
func NotFollowing(msg string) error  { return New(KindNotFollowing, msg) }

func Internal(msg string, cause error) error {
	return Wrap(KindInternal, msg, cause)
}

// KindOf reports the taxonomy kind of err. Anything that is not an
// *Error, including a bare store or transport failure, counts as
// internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation, KindSelfReference, KindAlreadyExists, KindNotFollowing:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage is the caller-visible text for err. Internal failures
// get a generic message so causes never leak across the boundary.
func PublicMessage(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != KindInternal {
		return e.Message
	}
	return "internal server error"
}
