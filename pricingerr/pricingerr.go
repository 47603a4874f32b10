// Package pricingerr defines the typed error kinds the engine surfaces to
// callers, per the error handling design in spec.md §7.
package pricingerr

import "fmt"

// Kind identifies the category of a pricing error.
type Kind int

const (
	// InvalidArgument marks a constructor precondition violation: a
	// negative volatility, non-positive spot, empty rate map, N<=0, W<=0,
	// an out-of-range Bermudan exercise date, and similar.
	InvalidArgument Kind = iota
	// NullInput marks a required component reference that was absent.
	NullInput
	// UnsupportedExerciseFamily guards the option dispatch point against
	// future option families; unreachable with European/American/Bermudan.
	UnsupportedExerciseFamily
	// WorkerFailure marks a simulation task that failed with an
	// unexpected condition (numerical overflow, out of memory, panic).
	WorkerFailure
	// RegressionDegenerate marks a singular LSM continuation regression.
	// It is recovered internally (falls back to zero continuation) and is
	// never returned to a caller. The LSM estimator logs each degenerate
	// step as a plain diagnostic line; no Error of this kind is constructed.
	RegressionDegenerate
)

func (k Kind) String() string {
	switch k {
	case InvalidArgument:
		return "InvalidArgument"
	case NullInput:
		return "NullInput"
	case UnsupportedExerciseFamily:
		return "UnsupportedExerciseFamily"
	case WorkerFailure:
		return "WorkerFailure"
	case RegressionDegenerate:
		return "RegressionDegenerate"
	default:
		return "Unknown"
	}
}

// Error is the typed error carried across the engine boundary. It wraps an
// optional underlying cause so callers can still errors.Is/errors.As through
// to it.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error with the same Kind, so callers can
// write errors.Is(err, pricingerr.New(pricingerr.InvalidArgument, "")).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// New constructs an Error of the given kind with a message.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Wrap constructs an Error of the given kind, wrapping an underlying cause.
func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}
