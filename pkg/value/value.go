package value

import (
	"errors"
	"fmt"
	"strconv"
)

type Kind int

const (
	KindUnit Kind = iota
	KindInt
	KindBool
	KindString
	KindBlock
)

var ErrNotBoolean = errors.New("value is not boolean-coercible")

// String returns the kind name used in diagnostics
func (k Kind) String() string {
	switch k {
	case KindUnit:
		return "unit"
	case KindInt:
		return "integer"
	case KindBool:
		return "boolean"
	case KindString:
		return "string"
	case KindBlock:
		return "block"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", int(k))
	}
}

// BlockRef names a label inside the frame that produced it.
type BlockRef struct {
	Function string // function declaring the label
	Label    string // label name
	Target   int    // resolved instruction index
	Frame    uint64 // id of the producing frame, 0 until bound by the interpreter
}

// Value represents a Machina runtime value. The zero Value is Unit.
type Value struct {
	Kind  Kind
	I64   int64
	Bool  bool
	Str   string
	Block BlockRef
}

// Unit is the no-value marker stored by calls whose callee returned nothing.
var Unit = Value{}

// String renders the value as program output.
func (v Value) String() string {
	switch v.Kind {
	case KindInt:
		return strconv.FormatInt(v.I64, 10)
	case KindBool:
		if v.Bool {
			return "1"
		}
		return "0"
	case KindString:
		return v.Str
	case KindBlock:
		return "<block " + v.Block.Label + ">"
	default:
		return "<unit>"
	}
}

// GoString renders the value the way it would be written as a literal.
func (v Value) GoString() string {
	switch v.Kind {
	case KindString:
		return strconv.Quote(v.Str)
	case KindBool:
		return strconv.FormatBool(v.Bool)
	default:
		return v.String()
	}
}

// Truthy reports whether the value counts as true for jmpt, jmpf and case.
// Only booleans and integers are coercible.
func (v Value) Truthy() (bool, error) {
	switch v.Kind {
	case KindBool:
		return v.Bool, nil
	case KindInt:
		return v.I64 != 0, nil
	default:
		return false, fmt.Errorf("%w: %s", ErrNotBoolean, v.Kind)
	}
}

// Equal reports whether two values have the same kind and payload.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}

	switch v.Kind {
	case KindInt:
		return v.I64 == o.I64
	case KindBool:
		return v.Bool == o.Bool
	case KindString:
		return v.Str == o.Str
	case KindBlock:
		return v.Block == o.Block
	default:
		return true
	}
}

func Int(i int64) Value {
	return Value{Kind: KindInt, I64: i}
}

func Bool(b bool) Value {
	return Value{Kind: KindBool, Bool: b}
}

func String(s string) Value {
	return Value{Kind: KindString, Str: s}
}

func Block(ref BlockRef) Value {
	return Value{Kind: KindBlock, Block: ref}
}
