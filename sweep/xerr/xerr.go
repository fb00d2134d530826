// Package xerr implements the tagged error taxonomy shared by every sweep
// package: InvalidArgument, IO, ProtocolError and Cancelled. Scorers never
// fail and the ranker has no error paths besides shutdown, so this taxonomy
// is consumed only at the controller and RPC boundaries.
package xerr

import (
	"errors"
	"fmt"
)

type Code int

const (
	// InvalidArgument: unknown scorer, malformed JSON, bad field selector,
	// bad key-spec. Reported per-call; never fatal.
	InvalidArgument Code = iota
	// IO: terminal or socket read/write failure. Session-fatal.
	IO
	// ProtocolError: malformed RPC frame.
	ProtocolError
	// Cancelled: controller shut down while an operation was pending.
	Cancelled
)

func (c Code) String() string {
	switch c {
	case InvalidArgument:
		return "invalid_argument"
	case IO:
		return "io"
	case ProtocolError:
		return "protocol_error"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Error wraps an underlying cause with one of the Codes above. It supports
// errors.Is/As against both the wrapped cause and the Code value itself.
type Error struct {
	Code Code
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	var other *Error
	if errors.As(target, &other) {
		return other.Code == e.Code
	}
	return false
}

func New(code Code, msg string) error {
	return &Error{Code: code, Msg: msg}
}

func Newf(code Code, format string, args ...any) error {
	return &Error{Code: code, Msg: fmt.Sprintf(format, args...)}
}

func Wrap(code Code, msg string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Msg: msg, Err: err}
}

// Of reports the Code of err if it (or something it wraps) is an *Error,
// and ok=false otherwise.
func Of(err error) (code Code, ok bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Code, true
	}
	return 0, false
}

// Is reports whether err carries the given Code.
func Is(err error, code Code) bool {
	c, ok := Of(err)
	return ok && c == code
}
