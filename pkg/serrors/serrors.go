// Package serrors provides semantic error kinds for the scanner. A kind tells
// callers how to treat a failure (bad input, broken index, failed construction)
// independently of the concrete cause it wraps.
package serrors

import (
	"errors"
	"fmt"
)

// Kind is a marker interface implemented by all semantic error kinds created
// with NewKind.
type Kind interface {
	error
	isKind()
}

type kind struct{ s string }

func (k kind) Error() string { return k.s }
func (k kind) isKind()       {}

// NewKind creates a new semantic error kind (a sentinel) with the provided name.
func NewKind(name string) Kind { return kind{s: name} }

var (
	// ErrBadRequest indicates invalid configuration, flags or manifest input.
	ErrBadRequest = NewKind("BAD_REQUEST")
	// ErrNotFound indicates a requested file, package or constructor does not exist.
	ErrNotFound = NewKind("NOT_FOUND")
	// ErrIndex indicates the type index could not be built or queried.
	ErrIndex = NewKind("INDEX")
	// ErrInstantiation indicates the application type could not be constructed.
	ErrInstantiation = NewKind("INSTANTIATION")
	// ErrInternal indicates an unexpected failure.
	ErrInternal = NewKind("INTERNAL")
)

// Error is a semantic error carrying a kind, an optional wrapped cause and an
// optional message. errors.Is and errors.As match both the kind and the cause.
//
// Error string formatting:
//   - msg and err set: "<msg>: <err>"
//   - only msg set: "<msg>"
//   - only err set: "<err>"
//   - neither set: the kind's name.
type Error struct {
	kind Kind
	err  error
	msg  string
}

// With constructs a semantic error with the given kind and message.
func With(k Kind, msgFmt string, args ...any) *Error {
	return &Error{kind: k, msg: fmt.Sprintf(msgFmt, args...)}
}

// Wrap constructs a semantic error with the given kind wrapping err.
func Wrap(k Kind, err error, msgFmt string, args ...any) *Error {
	return &Error{kind: k, err: err, msg: fmt.Sprintf(msgFmt, args...)}
}

// KindOnly creates a semantic error carrying only the kind.
func KindOnly(k Kind) *Error { return &Error{kind: k} }

// KindOf returns the kind of the first semantic error in err's chain, or nil.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.kind
	}

	return nil
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e == nil:
		return "<nil>"
	case e.msg != "" && e.err != nil:
		return e.msg + ": " + e.err.Error()
	case e.msg != "":
		return e.msg
	case e.err != nil:
		return e.err.Error()
	case e.kind != nil:
		return e.kind.Error()
	default:
		return "unknown error"
	}
}

// Unwrap returns the wrapped cause.
func (e *Error) Unwrap() error { return e.err }

// Is matches target against the kind or the wrapped cause.
func (e *Error) Is(target error) bool {
	if e == nil || target == nil {
		return e == nil && target == nil
	}

	return (e.kind != nil && errors.Is(e.kind, target)) ||
		(e.err != nil && errors.Is(e.err, target))
}

// As extracts either the kind or a type from the wrapped cause chain.
func (e *Error) As(target any) bool {
	if e == nil || target == nil {
		return false
	}

	return (e.kind != nil && errors.As(e.kind, target)) ||
		(e.err != nil && errors.As(e.err, target))
}

// Kind returns the semantic kind, or nil.
func (e *Error) Kind() Kind { return e.kind }

// Message returns the message attached to this error.
func (e *Error) Message() string { return e.msg }

// Cause returns the wrapped cause (may be nil).
func (e *Error) Cause() error { return e.err }
