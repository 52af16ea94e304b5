package failure

import (
	"errors"
	"fmt"
)

// Kind classifies a failure
type Kind string

const (
	KindValidation          Kind = "validation"           // incomplete or malformed fields
	KindPermissionDenied    Kind = "permission_denied"    // location access refused
	KindLocationUnavailable Kind = "location_unavailable" // position fetch failed
	KindNetwork             Kind = "network"              // transport or remote failure
	KindUnauthorized        Kind = "unauthorized"         // phone number not allowed
	KindNotFound            Kind = "not_found"
	KindRateLimited         Kind = "rate_limited"
	KindInternal            Kind = "internal"
)

// Error is a classified failure carrying the dialog title and message shown to the user
type Error struct {
	Kind    Kind
	Op      string
	Title   string
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, msg)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a failure without an underlying cause
func New(kind Kind, op, title, message string) *Error {
	return &Error{Kind: kind, Op: op, Title: title, Message: message}
}

// Wrap creates a failure around an underlying cause
func Wrap(err error, kind Kind, op, title, message string) *Error {
	return &Error{Kind: kind, Op: op, Title: title, Message: message, Err: err}
}

// Validation creates a validation failure
func Validation(op, title, message string) *Error {
	return New(KindValidation, op, title, message)
}

// Network wraps a transport failure
func Network(err error, op, title, message string) *Error {
	return Wrap(err, KindNetwork, op, title, message)
}

// KindOf returns the kind of the outermost failure in the chain, or KindInternal
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Is reports whether err carries a failure of the given kind
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// TitleOf returns the dialog title of the failure, or fallback
func TitleOf(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) && e.Title != "" {
		return e.Title
	}
	return fallback
}

// MessageOf returns the user-facing message of the failure, or fallback.
// Internal failures never expose their message.
func MessageOf(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != KindInternal && e.Message != "" {
		return e.Message
	}
	return fallback
}
