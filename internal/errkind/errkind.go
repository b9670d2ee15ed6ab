// Package errkind classifies the errors GetThis can return, mirroring the
// error taxonomy of the original collection pipeline (missing file-name
// records, resource init failures, I/O failures, and the top level Fatal
// translation of an unexpected panic).
package errkind

import (
	goerrors "github.com/go-errors/errors"
)

// Kind identifies the broad category of a GetThis error. LimitViolation and
// DuplicateSample are deliberately absent: the spec treats both as
// non-error control-flow signals (LimitStatus and Outcome respectively),
// never wrapped in an error.
type Kind int

const (
	// Unknown is the zero value; never returned deliberately.
	Unknown Kind = iota

	// InvalidArgument: missing file-name record, empty sample name,
	// unsupported output kind.
	InvalidArgument

	// ResourceInitFailure: archive open, compression-level setting,
	// password set, temp-stream open, table schema set.
	ResourceInitFailure

	// IoFailure: directory creation, file open, stream copy, close.
	IoFailure

	// Fatal: an uncaught condition inside Orchestrator.Run.
	Fatal
)

func (k Kind) String() string {
	switch k {
	case InvalidArgument:
		return "InvalidArgument"
	case ResourceInitFailure:
		return "ResourceInitFailure"
	case IoFailure:
		return "IoFailure"
	case Fatal:
		return "Fatal"
	default:
		return "Unknown"
	}
}

// Error wraps an underlying cause with a Kind, so callers can branch on
// classification without string-matching messages.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.String() + ": " + e.Op
	}
	return e.Kind.String() + ": " + e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// New constructs a classified error. ResourceInitFailure and Fatal cross a
// component boundary the caller will likely just log, so their cause is
// wrapped with go-errors/errors to carry a stack trace back to wherever
// it actually happened — the same tool crypto/simple.go reaches for on its
// own component boundary.
func New(kind Kind, op string, err error) *Error {
	if err != nil && (kind == ResourceInitFailure || kind == Fatal) {
		err = goerrors.Wrap(err, 1)
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// Is reports whether err carries the given Kind.
func Is(err error, kind Kind) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e.Kind == kind
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
