// Package errs defines the error kinds surfaced by the measurement codec.
//
// Every failure returned by the codec is an *Error carrying one Kind. Callers
// branch on the kind with the Is* predicates or KindOf; the message text keeps
// a stable prefix so it can be matched in logs and tests.
package errs

import (
	"errors"
	"fmt"
)

// Kind classifies codec failures
type Kind int

const (
	// KindUnknown is reported by KindOf for errors not produced by the codec
	KindUnknown Kind = iota
	// KindInvalidArgument covers malformed lexical values, whitespace violations,
	// operator/operand mismatches, duplicate keys and missing envelope content
	KindInvalidArgument
	// KindDateTime covers timestamps that are not UTC where UTC is mandatory
	KindDateTime
	// KindInvalidMessage wraps failures while reading or writing a document tree
	KindInvalidMessage
)

// String returns the string representation of Kind
func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "invalid argument"
	case KindDateTime:
		return "datetime kind"
	case KindInvalidMessage:
		return "invalid message"
	default:
		return "unknown"
	}
}

// Error is a classified codec error
type Error struct {
	Kind Kind
	// Op names the operation that failed, e.g. "xsd.ParseDouble"
	Op  string
	Msg string
	Err error
}

// Error implements the error interface. The message comes first so that
// callers can match on its prefix.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Err
}

// InvalidArgumentf creates a KindInvalidArgument error
func InvalidArgumentf(op, format string, args ...any) error {
	return &Error{Kind: KindInvalidArgument, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// DateTimeKindf creates a KindDateTime error
func DateTimeKindf(op, format string, args ...any) error {
	return &Error{Kind: KindDateTime, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// InvalidMessage wraps err as a KindInvalidMessage error. err may be nil when the
// failure is purely structural.
func InvalidMessage(err error, op, format string, args ...any) error {
	return &Error{Kind: KindInvalidMessage, Op: op, Msg: fmt.Sprintf(format, args...), Err: err}
}

// KindOf returns the kind of the outermost codec error in err's chain
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsInvalidArgument reports whether err is classified as an invalid argument
func IsInvalidArgument(err error) bool {
	return KindOf(err) == KindInvalidArgument
}

// IsDateTimeKind reports whether err was caused by a non-UTC timestamp
func IsDateTimeKind(err error) bool {
	return KindOf(err) == KindDateTime
}

// IsInvalidMessage reports whether err was raised while reading or writing a document
func IsInvalidMessage(err error) bool {
	return KindOf(err) == KindInvalidMessage
}

// HasKind reports whether any codec error in err's chain has the given kind
func HasKind(err error, kind Kind) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Kind == kind {
			return true
		}
		err = e.Err
	}
	return false
}
