package value_test

import (
	"testing"

	"github.com/agenthands/thorn/pkg/core/value"
)

func TestValueCreation(t *testing.T) {
	// Test Integer Value
	vInt := value.Int(42)
	if vInt.Type != value.TypeInt {
		t.Errorf("expected TypeInt, got %v", vInt.Type)
	}
	if vInt.Int() != 42 {
		t.Errorf("expected 42, got %v", vInt.Int())
	}

	neg := value.Int(-7)
	if neg.Int() != -7 {
		t.Errorf("expected -7, got %v", neg.Int())
	}

	// Test Boolean Value
	vBool := value.Bool(true)
	if vBool.Type != value.TypeBool {
		t.Errorf("expected TypeBool, got %v", vBool.Type)
	}
	if !vBool.Bool() {
		t.Errorf("expected true, got false")
	}

	vFloat := value.Float(2.5)
	if vFloat.Type != value.TypeFloat || vFloat.Float() != 2.5 {
		t.Errorf("expected Float(2.5), got %v", vFloat)
	}

	if value.Int(3).Float() != 3.0 {
		t.Errorf("integer did not widen to float")
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		v    value.Value
		want string
	}{
		{value.Int(10), "10"},
		{value.Int(-3), "-3"},
		{value.Float(3), "3.0"},
		{value.Float(-0.5), "-0.5"},
		{value.Float(1.25), "1.25"},
		{value.Float(1e20), "1e+20"},
		{value.Bool(true), "true"},
		{value.Bool(false), "false"},
		{value.String("hello [nested] world"), "hello [nested] world"},
		{value.Ident("x"), "x"},
		{value.Keyword(":tag"), ":tag"},
	}

	for _, tt := range tests {
		if got := tt.v.Format(); got != tt.want {
			t.Errorf("Format(%v) = %q, want %q", tt.v, got, tt.want)
		}
	}

	if got := value.String("a b").Repr(); got != "[a b]" {
		t.Errorf("Repr = %q, want %q", got, "[a b]")
	}
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b value.Value
		want bool
	}{
		{"IntInt", value.Int(1), value.Int(1), true},
		{"IntIntDiff", value.Int(1), value.Int(2), false},
		{"IntFloat", value.Int(1), value.Float(1.0), true},
		{"FloatFloat", value.Float(0.5), value.Float(0.5), true},
		{"BoolInt", value.Bool(true), value.Int(1), true},
		{"BoolBool", value.Bool(false), value.Bool(true), false},
		{"StringString", value.String("a"), value.String("a"), true},
		{"StringInt", value.String("1"), value.Int(1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := value.Equal(tt.a, tt.b); got != tt.want {
				t.Errorf("Equal(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestTypeNames(t *testing.T) {
	if value.TypeKeyword.String() != "KeywordAtom" {
		t.Errorf("unexpected name %q", value.TypeKeyword.String())
	}
	if value.Type(99).String() != "Type(99)" {
		t.Errorf("unexpected name %q", value.Type(99).String())
	}
}
