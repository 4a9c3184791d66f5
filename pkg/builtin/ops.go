package builtin

import (
	"fmt"

	"machina/pkg/value"
)

func mismatch(want string, got ...value.Value) error {
	kinds := make([]string, len(got))
	for i, v := range got {
		kinds[i] = v.Kind.String()
	}

	return fmt.Errorf("%w: expected %s, got %v", ErrTypeMismatch, want, kinds)
}

func mov(args []value.Value) (value.Value, error) {
	return args[0], nil
}

func ints(a, b value.Value) (int64, int64, error) {
	if a.Kind != value.KindInt || b.Kind != value.KindInt {
		return 0, 0, mismatch("integers", a, b)
	}

	return a.I64, b.I64, nil
}

func arith(fn func(a, b int64) (int64, error)) Func {
	return func(args []value.Value) (value.Value, error) {
		a, b, err := ints(args[0], args[1])
		if err != nil {
			return value.Value{}, err
		}

		r, err := fn(a, b)
		if err != nil {
			return value.Value{}, err
		}

		return value.Int(r), nil
	}
}

func compare(fn func(a, b int64) bool) Func {
	return func(args []value.Value) (value.Value, error) {
		a, b, err := ints(args[0], args[1])
		if err != nil {
			return value.Value{}, err
		}

		return value.Bool(fn(a, b)), nil
	}
}

// equal compares integers, and also strings or booleans of the same kind
func equal(negate bool) Func {
	return func(args []value.Value) (value.Value, error) {
		a, b := args[0], args[1]
		if a.Kind != b.Kind {
			return value.Value{}, mismatch("operands of the same kind", a, b)
		}

		switch a.Kind {
		case value.KindInt, value.KindString, value.KindBool:
			return value.Bool(a.Equal(b) != negate), nil
		default:
			return value.Value{}, mismatch("integers, strings or booleans", a, b)
		}
	}
}

func logical(fn func(a, b bool) bool) Func {
	return func(args []value.Value) (value.Value, error) {
		a, errA := args[0].Truthy()
		b, errB := args[1].Truthy()
		if errA != nil || errB != nil {
			return value.Value{}, mismatch("booleans", args[0], args[1])
		}

		return value.Bool(fn(a, b)), nil
	}
}

func not(args []value.Value) (value.Value, error) {
	a, err := args[0].Truthy()
	if err != nil {
		return value.Value{}, mismatch("boolean", args[0])
	}

	return value.Bool(!a), nil
}

// branch returns the block of the first pair whose condition holds
func branch(args []value.Value) (value.Value, error) {
	for i := 0; i+1 < len(args); i += 2 {
		cond, label := args[i], args[i+1]
		if label.Kind != value.KindBlock {
			return value.Value{}, mismatch("label", label)
		}

		ok, err := cond.Truthy()
		if err != nil {
			return value.Value{}, mismatch("boolean condition", cond)
		}
		if ok {
			return label, nil
		}
	}

	return value.Value{}, ErrNoMatchingCase
}
