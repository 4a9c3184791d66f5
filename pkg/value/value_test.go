package value_test

import (
	"errors"
	"testing"

	"machina/pkg/value"
)

func TestString(t *testing.T) {
	tests := []struct {
		in       value.Value
		expected string
	}{
		{value.Int(42), "42"},
		{value.Int(-7), "-7"},
		{value.Bool(true), "1"},
		{value.Bool(false), "0"},
		{value.String("Fizz\n"), "Fizz\n"},
		{value.Unit, "<unit>"},
		{value.Block(value.BlockRef{Label: "FIZZ"}), "<block FIZZ>"},
	}

	for _, test := range tests {
		if got := test.in.String(); got != test.expected {
			t.Errorf("%#v: expected %q, got %q", test.in, test.expected, got)
		}
	}
}

func TestTruthy(t *testing.T) {
	tests := []struct {
		in       value.Value
		expected bool
		fails    bool
	}{
		{value.Bool(true), true, false},
		{value.Bool(false), false, false},
		{value.Int(0), false, false},
		{value.Int(-3), true, false},
		{value.String("yes"), false, true},
		{value.Unit, false, true},
	}

	for _, test := range tests {
		got, err := test.in.Truthy()
		if test.fails {
			if !errors.Is(err, value.ErrNotBoolean) {
				t.Errorf("%#v: expected ErrNotBoolean, got %v", test.in, err)
			}
			continue
		}
		if err != nil || got != test.expected {
			t.Errorf("%#v: expected %v, got %v (err %v)", test.in, test.expected, got, err)
		}
	}
}

func TestEqual(t *testing.T) {
	if !value.Int(3).Equal(value.Int(3)) {
		t.Errorf("expected equal integers")
	}
	if value.Int(1).Equal(value.Bool(true)) {
		t.Errorf("values of different kinds must not be equal")
	}
	if !value.Unit.Equal(value.Value{}) {
		t.Errorf("zero value must be unit")
	}
}
