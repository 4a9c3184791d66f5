package interpreter

import (
	"errors"
	"fmt"
	"strings"

	"machina/pkg/builtin"
	"machina/pkg/stack"
)

type ErrorKind string

const (
	UnknownFunction ErrorKind = "UnknownFunction"
	ArityMismatch   ErrorKind = "ArityMismatch"
	UnknownVariable ErrorKind = "UnknownVariable"
	TypeMismatch    ErrorKind = "TypeMismatch"
	DivisionByZero  ErrorKind = "DivisionByZero"
	NoMatchingCase  ErrorKind = "NoMatchingCase"
	StackOverflow   ErrorKind = "StackOverflow"
	InvalidBlock    ErrorKind = "InvalidBlock"
	Internal        ErrorKind = "Internal"
)

var (
	ErrUnknownFunction  = errors.New("unknown function")
	ErrArityMismatch    = errors.New("arity mismatch")
	ErrUnknownVariable  = errors.New("unknown variable")
	ErrStackOverflow    = errors.New("stack overflow")
	ErrInvalidBlock     = errors.New("invalid block reference")
	ErrMaxStepsExceeded = errors.New("maximum steps exceeded")
	ErrHalted           = errors.New("interpreter is not running")
)

// TraceEntry is one active call at the time of a failure.
type TraceEntry struct {
	Function string
	IP       int
	Line     int
}

func (e TraceEntry) String() string {
	return fmt.Sprintf("%s@%d (line %d)", e.Function, e.IP, e.Line)
}

// RuntimeError aborts a run. Trace lists the call chain, innermost first.
type RuntimeError struct {
	Kind  ErrorKind
	Err   error
	Trace []TraceEntry
}

func (e *RuntimeError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %v", e.Kind, e.Err)
	for _, t := range e.Trace {
		b.WriteString("\n\tat " + t.String())
	}
	return b.String()
}

func (e *RuntimeError) Unwrap() error {
	return e.Err
}

// kindOf maps a failure to its reported kind
func kindOf(err error) ErrorKind {
	switch {
	case errors.Is(err, ErrUnknownFunction):
		return UnknownFunction
	case errors.Is(err, ErrArityMismatch), errors.Is(err, builtin.ErrArity):
		return ArityMismatch
	case errors.Is(err, ErrUnknownVariable):
		return UnknownVariable
	case errors.Is(err, builtin.ErrTypeMismatch):
		return TypeMismatch
	case errors.Is(err, builtin.ErrDivisionByZero):
		return DivisionByZero
	case errors.Is(err, builtin.ErrNoMatchingCase):
		return NoMatchingCase
	case errors.Is(err, ErrStackOverflow), errors.Is(err, stack.ErrOverflow):
		return StackOverflow
	case errors.Is(err, ErrInvalidBlock):
		return InvalidBlock
	default:
		return Internal
	}
}

// fail wraps err with the current call chain
func (i *Interpreter) fail(err error) error {
	var rt *RuntimeError
	if errors.As(err, &rt) {
		return err
	}

	frames := i.stack.Array()
	trace := make([]TraceEntry, 0, len(frames))
	for n := len(frames) - 1; n >= 0; n-- {
		f := frames[n]
		entry := TraceEntry{Function: f.Function.Name, IP: f.IP}
		if ins, ok := f.current(); ok {
			entry.Line = ins.Line
		}
		trace = append(trace, entry)
	}

	return &RuntimeError{Kind: kindOf(err), Err: err, Trace: trace}
}
