// Package errs defines the error kinds the bot core reports and the
// helpers commands use to decide how a failure is surfaced.
package errs

import (
	"errors"
	"fmt"
)

type Kind int

const (
	// Unknown is the zero kind for errors that did not come from the core.
	Unknown Kind = iota
	// NotFound: the referenced guild/user/item/slot does not exist.
	NotFound
	// Validation: user input out of range or malformed.
	Validation
	// Precondition: the action would violate an invariant (no tool
	// equipped, wrong world, insufficient balance, ...).
	Precondition
	// Upstream: the chat platform or an external HTTP service returned a
	// non-success status.
	Upstream
	// Transient: network or database blip; the caller (usually a
	// scheduler sweep) retries later.
	Transient
	// Fatal: constraint violation or missing configuration. Logged,
	// never shown to the user verbatim.
	Fatal
)

func (k Kind) String() string {
	switch k {
	case NotFound:
		return "not_found"
	case Validation:
		return "validation"
	case Precondition:
		return "precondition"
	case Upstream:
		return "upstream"
	case Transient:
		return "transient"
	case Fatal:
		return "fatal"
	default:
		return "unknown"
	}
}

type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		if e.Msg == "" {
			return e.Err.Error()
		}
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, err error, msg string) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf reports the kind of err, walking the wrap chain. Errors that
// never passed through this package report Unknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Unknown
}

func Is(err error, kind Kind) bool { return KindOf(err) == kind }

// UserFacing reports whether err carries a message meant for the
// invoking user rather than the operator log.
func UserFacing(err error) bool {
	switch KindOf(err) {
	case NotFound, Validation, Precondition, Upstream:
		return true
	}
	return false
}
