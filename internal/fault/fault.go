// Package fault classifies the errors that the memory and cpu packages
// raise so that callers can branch on kind without parsing messages.
package fault

import "errors"

// Kind is the category of a failure raised by the memory context or the
// CPU. It mirrors the small, closed set of ways these components can
// fail: there's no attempt to model a richer hierarchy.
type Kind int

const (
	// OutOfRange means an address or size fell outside any arena, or
	// outside an allocated block while strict mode is enabled.
	OutOfRange Kind = iota
	// InvalidArgument means a caller-supplied size, alignment or
	// register number was never going to be valid.
	InvalidArgument
	// Unimplemented means a decoded opcode has no handler.
	Unimplemented
	// DivisionByZero means a DIVU/DIVS divisor was zero.
	DivisionByZero
	// Trap means a TRAP, illegal, privilege-violation or similar
	// exception vector was raised deliberately by instruction logic.
	Trap
	// LogicError means an internal invariant was violated (e.g. a free
	// list no longer matches its allocated-block map).
	LogicError
)

func (k Kind) String() string {
	switch k {
	case OutOfRange:
		return "out of range"
	case InvalidArgument:
		return "invalid argument"
	case Unimplemented:
		return "unimplemented"
	case DivisionByZero:
		return "division by zero"
	case Trap:
		return "trap"
	case LogicError:
		return "logic error"
	default:
		return "unknown fault"
	}
}

// Error is a typed error carrying a Kind, the operation that raised it,
// and the underlying cause.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Op + ": " + e.Kind.String()
	}

	return e.Op + ": " + e.Kind.String() + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is (or wraps) a *Error with the same Kind.
func (e *Error) Is(target error) bool {
	var other *Error
	if errors.As(target, &other) {
		return other.Kind == e.Kind
	}

	return false
}

// New builds an Error of the given kind.
func New(op string, kind Kind, err error) *Error {
	return &Error{Op: op, Kind: kind, Err: err}
}

// Of reports the Kind of err, if err is (or wraps) a *Error.
func Of(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}

	return 0, false
}
