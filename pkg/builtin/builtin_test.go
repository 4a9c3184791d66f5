package builtin_test

import (
	"errors"
	"testing"

	"machina/pkg/builtin"
	"machina/pkg/value"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func apply(t *testing.T, name string, args ...value.Value) (value.Value, error) {
	t.Helper()

	op, ok := builtin.Default().Lookup(name)
	if !ok {
		t.Fatalf("builtin %q not registered", name)
	}

	return op.Apply(args)
}

func block(label string) value.Value {
	return value.Block(value.BlockRef{Function: "f", Label: label})
}

func TestOperations(t *testing.T) {
	tests := []struct {
		name     string
		args     []value.Value
		expected value.Value
	}{
		{"mov", []value.Value{value.String("x")}, value.String("x")},
		{"add", []value.Value{value.Int(2), value.Int(3)}, value.Int(5)},
		{"sub", []value.Value{value.Int(2), value.Int(3)}, value.Int(-1)},
		{"mul", []value.Value{value.Int(4), value.Int(3)}, value.Int(12)},
		{"div", []value.Value{value.Int(7), value.Int(2)}, value.Int(3)},
		{"mod", []value.Value{value.Int(15), value.Int(4)}, value.Int(3)},
		{"lt", []value.Value{value.Int(1), value.Int(2)}, value.Bool(true)},
		{"lt", []value.Value{value.Int(2), value.Int(2)}, value.Bool(false)},
		{"lte", []value.Value{value.Int(2), value.Int(2)}, value.Bool(true)},
		{"gt", []value.Value{value.Int(3), value.Int(2)}, value.Bool(true)},
		{"gte", []value.Value{value.Int(1), value.Int(2)}, value.Bool(false)},
		{"eq", []value.Value{value.Int(0), value.Int(0)}, value.Bool(true)},
		{"eq", []value.Value{value.String("a"), value.String("b")}, value.Bool(false)},
		{"neq", []value.Value{value.Int(1), value.Int(0)}, value.Bool(true)},
		{"and", []value.Value{value.Bool(true), value.Bool(true)}, value.Bool(true)},
		{"and", []value.Value{value.Bool(true), value.Int(0)}, value.Bool(false)},
		{"and", []value.Value{value.Int(5), value.Int(-1)}, value.Bool(true)},
		{"or", []value.Value{value.Bool(false), value.Int(1)}, value.Bool(true)},
		{"xor", []value.Value{value.Bool(true), value.Bool(true)}, value.Bool(false)},
		{"not", []value.Value{value.Int(0)}, value.Bool(true)},
	}

	for _, test := range tests {
		got, err := apply(t, test.name, test.args...)
		if err != nil {
			t.Errorf("%s%v: unexpected error %v", test.name, test.args, err)
			continue
		}
		if !got.Equal(test.expected) {
			t.Errorf("%s%v: expected %#v, got %#v", test.name, test.args, test.expected, got)
		}
	}
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name     string
		args     []value.Value
		expected error
	}{
		{"mod", []value.Value{value.Int(5), value.Int(0)}, builtin.ErrDivisionByZero},
		{"div", []value.Value{value.Int(5), value.Int(0)}, builtin.ErrDivisionByZero},
		{"add", []value.Value{value.String("5"), value.Int(1)}, builtin.ErrTypeMismatch},
		{"lt", []value.Value{value.Bool(true), value.Int(1)}, builtin.ErrTypeMismatch},
		{"eq", []value.Value{value.Int(1), value.Bool(true)}, builtin.ErrTypeMismatch},
		{"and", []value.Value{value.String("yes"), value.Bool(true)}, builtin.ErrTypeMismatch},
		{"not", []value.Value{value.Unit}, builtin.ErrTypeMismatch},
		{"add", []value.Value{value.Int(1)}, builtin.ErrArity},
		{"case", []value.Value{value.Bool(true)}, builtin.ErrArity},
		{"case", []value.Value{value.Bool(false), block("A"), value.Int(0), block("B")}, builtin.ErrNoMatchingCase},
		{"case", []value.Value{value.String("x"), block("A")}, builtin.ErrTypeMismatch},
	}

	for _, test := range tests {
		_, err := apply(t, test.name, test.args...)
		if !errors.Is(err, test.expected) {
			t.Errorf("%s%v: expected %v, got %v", test.name, test.args, test.expected, err)
		}
	}
}

func TestCaseFirstTrueWins(t *testing.T) {
	for _, name := range []string{"case", "switch"} {
		got, err := apply(t, name,
			value.Bool(false), block("L0"),
			value.Bool(true), block("L1"),
			value.Bool(true), block("L2"),
		)
		if err != nil {
			t.Fatalf("%s: unexpected error %v", name, err)
		}
		if got.Kind != value.KindBlock || got.Block.Label != "L1" {
			t.Errorf("%s: expected block L1, got %#v", name, got)
		}
	}
}

func TestArithmeticProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)
	table := builtin.Default()

	call := func(name string, a, b int64) value.Value {
		op, _ := table.Lookup(name)
		v, err := op.Apply([]value.Value{value.Int(a), value.Int(b)})
		if err != nil {
			return value.Unit
		}
		return v
	}

	properties.Property("add and sub are inverse", prop.ForAll(
		func(a, b int64) bool {
			sum := call("add", a, b)
			return call("sub", sum.I64, b).Equal(value.Int(a))
		},
		gen.Int64(),
		gen.Int64(),
	))

	properties.Property("mod stays below the divisor", prop.ForAll(
		func(a, b int64) bool {
			r := call("mod", a, b)
			return r.Kind == value.KindInt && r.I64 < b && r.I64 > -b
		},
		gen.Int64Range(-1000000, 1000000),
		gen.Int64Range(1, 1000),
	))

	properties.Property("lt and gte are complementary", prop.ForAll(
		func(a, b int64) bool {
			return call("lt", a, b).Bool != call("gte", a, b).Bool
		},
		gen.Int64(),
		gen.Int64(),
	))

	properties.Property("case picks the first true condition", prop.ForAll(
		func(conds []bool) bool {
			args := make([]value.Value, 0, len(conds)*2)
			first := -1
			for i, c := range conds {
				if c && first < 0 {
					first = i
				}
				args = append(args, value.Bool(c), value.Block(value.BlockRef{Target: i}))
			}

			op, _ := table.Lookup("case")
			got, err := op.Apply(args)
			if first < 0 {
				return errors.Is(err, builtin.ErrNoMatchingCase)
			}
			return err == nil && got.Block.Target == first
		},
		gen.SliceOfN(6, gen.Bool()),
	))

	properties.TestingRun(t)
}
