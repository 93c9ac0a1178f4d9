// Package apperr defines the error taxonomy shared by services.
// Services return these errors; HTTP handlers map them to status codes in one place.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an Error for transport mapping.
type Kind int

const (
	// KindValidation is malformed input (empty title, bad email).
	KindValidation Kind = iota + 1
	// KindNotFound is an absent entity, including cross-org mismatch
	// deliberately collapsed into absence.
	KindNotFound
	// KindForbidden is an authenticated caller with insufficient membership or role.
	KindForbidden
	// KindConflict is a duplicate unique field or an invariant violation.
	KindConflict
)

// Error is a classified application error with a human-readable reason.
type Error struct {
	Kind   Kind
	Reason string
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindValidation:
		return fmt.Sprintf("validation: %s", e.Reason)
	case KindNotFound:
		return fmt.Sprintf("not found: %s", e.Reason)
	case KindForbidden:
		return fmt.Sprintf("forbidden: %s", e.Reason)
	case KindConflict:
		return fmt.Sprintf("conflict: %s", e.Reason)
	}
	return e.Reason
}

// Validation returns a KindValidation error with the given reason.
func Validation(reason string) *Error { return &Error{Kind: KindValidation, Reason: reason} }

// NotFound returns a KindNotFound error naming the missing entity.
func NotFound(entity string) *Error { return &Error{Kind: KindNotFound, Reason: entity + " not found"} }

// Forbidden returns a KindForbidden error with the given reason. The reason
// distinguishes "not a member" from "admin required" for observability even
// though both map to the same client-visible status class.
func Forbidden(reason string) *Error { return &Error{Kind: KindForbidden, Reason: reason} }

// Conflict returns a KindConflict error with the given reason.
func Conflict(reason string) *Error { return &Error{Kind: KindConflict, Reason: reason} }

// AsError returns err as an *Error if it is (or wraps) one, else nil.
func AsError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return nil
}

// KindOf returns the Kind of err if it is (or wraps) an *Error, else 0.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// IsValidation reports whether err is a KindValidation error.
func IsValidation(err error) bool { return KindOf(err) == KindValidation }

// IsNotFound reports whether err is a KindNotFound error.
func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }

// IsForbidden reports whether err is a KindForbidden error.
func IsForbidden(err error) bool { return KindOf(err) == KindForbidden }

// IsConflict reports whether err is a KindConflict error.
func IsConflict(err error) bool { return KindOf(err) == KindConflict }
