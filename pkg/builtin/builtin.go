// Package builtin is the table of named operations usable on the right-hand
// side of an assignment. Every operation is a pure function over values.
package builtin

import (
	"errors"
	"fmt"
	"slices"

	"machina/pkg/value"
)

var (
	ErrTypeMismatch   = errors.New("type mismatch")
	ErrDivisionByZero = errors.New("division by zero")
	ErrNoMatchingCase = errors.New("no matching case")
	ErrArity          = errors.New("wrong number of operands")
)

// Pairs marks an operation taking (condition, label) pairs.
const Pairs = -1

type Func func(args []value.Value) (value.Value, error)

// Op is one entry of the table.
type Op struct {
	Name  string
	Arity int // fixed operand count, or Pairs
	Fn    Func
}

// Branches reports whether the operation takes (condition, label) pairs
func (o Op) Branches() bool {
	return o.Arity == Pairs
}

// CheckArity validates an operand count against the declaration
func (o Op) CheckArity(n int) error {
	if o.Arity == Pairs {
		if n == 0 || n%2 != 0 {
			return fmt.Errorf("%w: %s expects (condition, label) pairs, got %d operands", ErrArity, o.Name, n)
		}
		return nil
	}

	if n != o.Arity {
		return fmt.Errorf("%w: %s expects %d, got %d", ErrArity, o.Name, o.Arity, n)
	}

	return nil
}

// Apply checks the operand count and invokes the operation
func (o Op) Apply(args []value.Value) (value.Value, error) {
	if err := o.CheckArity(len(args)); err != nil {
		return value.Value{}, err
	}

	return o.Fn(args)
}

type Table map[string]Op

// Lookup returns the operation registered under name
func (t Table) Lookup(name string) (Op, bool) {
	op, ok := t[name]
	return op, ok
}

// Register adds or replaces an operation
func (t Table) Register(op Op) {
	t[op.Name] = op
}

// Names returns the registered operation names in sorted order
func (t Table) Names() []string {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	slices.Sort(names)

	return names
}

// Default returns a fresh table holding every builtin operation
func Default() Table {
	t := Table{}

	for _, op := range []Op{
		{Name: "mov", Arity: 1, Fn: mov},

		{Name: "add", Arity: 2, Fn: arith(func(a, b int64) (int64, error) { return a + b, nil })},
		{Name: "sub", Arity: 2, Fn: arith(func(a, b int64) (int64, error) { return a - b, nil })},
		{Name: "mul", Arity: 2, Fn: arith(func(a, b int64) (int64, error) { return a * b, nil })},
		{Name: "div", Arity: 2, Fn: arith(func(a, b int64) (int64, error) {
			if b == 0 {
				return 0, ErrDivisionByZero
			}
			return a / b, nil
		})},
		{Name: "mod", Arity: 2, Fn: arith(func(a, b int64) (int64, error) {
			if b == 0 {
				return 0, ErrDivisionByZero
			}
			return a % b, nil
		})},

		{Name: "lt", Arity: 2, Fn: compare(func(a, b int64) bool { return a < b })},
		{Name: "lte", Arity: 2, Fn: compare(func(a, b int64) bool { return a <= b })},
		{Name: "gt", Arity: 2, Fn: compare(func(a, b int64) bool { return a > b })},
		{Name: "gte", Arity: 2, Fn: compare(func(a, b int64) bool { return a >= b })},
		{Name: "eq", Arity: 2, Fn: equal(false)},
		{Name: "neq", Arity: 2, Fn: equal(true)},

		{Name: "and", Arity: 2, Fn: logical(func(a, b bool) bool { return a && b })},
		{Name: "or", Arity: 2, Fn: logical(func(a, b bool) bool { return a || b })},
		{Name: "xor", Arity: 2, Fn: logical(func(a, b bool) bool { return a != b })},
		{Name: "not", Arity: 1, Fn: not},

		{Name: "case", Arity: Pairs, Fn: branch},
		{Name: "switch", Arity: Pairs, Fn: branch},
	} {
		t.Register(op)
	}

	return t
}
