// Package apperr classifies failures the way spec section 7 does: every
// error the core produces carries a Kind so the entrypoint can map it to
// the right exit code and diagnostic message without re-deriving the
// classification from the error text.
package apperr

import "fmt"

// Kind is the error classification from spec section 7.
type Kind int

const (
	// InputFormat covers malformed FASTA input.
	InputFormat Kind = iota
	// Io covers read/write failures.
	Io
	// Config covers a k or num_hashes mismatch at filter construction.
	Config
	// Contract covers an invariant breach — e.g. a path conversion
	// invoked on a path with a gap between successive vertices. These
	// are programming errors, not recoverable runtime conditions, and
	// are raised as panics rather than returned as Errors (see Raise
	// below).
	Contract
)

func (k Kind) String() string {
	switch k {
	case InputFormat:
		return "input format error"
	case Io:
		return "I/O error"
	case Config:
		return "configuration error"
	case Contract:
		return "contract violation"
	default:
		return "unknown error"
	}
}

// Error pairs a Kind with the underlying cause.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// New wraps err with kind.
func New(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// Newf is New with a formatted message in place of a wrapped error.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// ExitCode maps a Kind to a process exit code. Contract violations are not
// included: they panic rather than propagate as an *Error (see the
// Contract doc comment), so there is no exit-code mapping for them here —
// a panic reaching main always terminates with a non-zero status supplied
// by the runtime.
func ExitCode(k Kind) int {
	switch k {
	case Config:
		return 2
	case InputFormat, Io:
		return 1
	default:
		return 1
	}
}

// Raise panics with a Contract-kind Error. Used at the few points spec
// section 7 calls an invariant breach rather than a recoverable failure:
// a path conversion invoked on a path with a gap between successive
// vertices.
func Raise(format string, args ...any) {
	panic(Newf(Contract, format, args...))
}
