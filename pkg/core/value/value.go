package value

import (
	"math"
	"strconv"
	"strings"
)

// Type represents the tag in the Value tagged union.
type Type uint8

const (
	TypeVoid Type = iota
	TypeInt
	TypeFloat
	TypeString
	TypeBool
	TypeIdent
	TypeKeyword
)

var typeNames = [...]string{
	TypeVoid:    "Void",
	TypeInt:     "Integer",
	TypeFloat:   "Float",
	TypeString:  "String",
	TypeBool:    "Boolean",
	TypeIdent:   "Identifier",
	TypeKeyword: "KeywordAtom",
}

func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "Type(" + strconv.Itoa(int(t)) + ")"
}

// Value is a tagged union.
// Integers, floats and booleans live in Data; strings, identifiers and
// keyword atoms carry their text in Text.
type Value struct {
	Type Type
	Data uint64
	Text string
}

func Int(i int64) Value { return Value{Type: TypeInt, Data: uint64(i)} }

func Float(f float64) Value { return Value{Type: TypeFloat, Data: math.Float64bits(f)} }

func Bool(b bool) Value {
	if b {
		return Value{Type: TypeBool, Data: 1}
	}
	return Value{Type: TypeBool}
}

func String(s string) Value { return Value{Type: TypeString, Text: s} }

func Ident(name string) Value { return Value{Type: TypeIdent, Text: name} }

// Keyword builds a keyword atom; the text includes the leading colon.
func Keyword(text string) Value { return Value{Type: TypeKeyword, Text: text} }

// Int returns the value as int64.
func (v Value) Int() int64 {
	return int64(v.Data)
}

// Float returns the value as float64, widening integers and booleans.
func (v Value) Float() float64 {
	if v.Type == TypeFloat {
		return math.Float64frombits(v.Data)
	}
	return float64(int64(v.Data))
}

func (v Value) Bool() bool {
	return v.Data != 0
}

func (v Value) IsNumeric() bool {
	return v.Type == TypeInt || v.Type == TypeFloat
}

// IsComparable reports whether v may appear as an operand of a comparison.
func (v Value) IsComparable() bool {
	switch v.Type {
	case TypeInt, TypeFloat, TypeString, TypeBool:
		return true
	}
	return false
}

// IsPrintable reports whether put accepts v.
func (v Value) IsPrintable() bool {
	return v.IsComparable()
}

// Format returns the native textual form of the value.
func (v Value) Format() string {
	switch v.Type {
	case TypeInt:
		return strconv.FormatInt(v.Int(), 10)
	case TypeFloat:
		return formatFloat(v.Float())
	case TypeBool:
		if v.Bool() {
			return "true"
		}
		return "false"
	case TypeString, TypeIdent, TypeKeyword:
		return v.Text
	default:
		return "<void>"
	}
}

// Repr is Format with strings bracketed, so it reads back as a literal.
func (v Value) Repr() string {
	if v.Type == TypeString {
		return "[" + v.Text + "]"
	}
	return v.Format()
}

func (v Value) String() string {
	return v.Type.String() + "(" + v.Repr() + ")"
}

func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "nan"
	}
	var s string
	if abs := math.Abs(f); abs == 0 || (abs >= 1e-4 && abs < 1e16) {
		s = strconv.FormatFloat(f, 'f', -1, 64)
	} else {
		s = strconv.FormatFloat(f, 'g', -1, 64)
	}
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

// Equal compares two values the way == does: integers, floats and booleans
// compare numerically with one another, strings compare with strings, and
// anything else is unequal.
func Equal(a, b Value) bool {
	if a.Type == TypeString || b.Type == TypeString {
		return a.Type == b.Type && a.Text == b.Text
	}
	if !isNumberLike(a) || !isNumberLike(b) {
		return a.Type == b.Type && a.Text == b.Text
	}
	if a.Type == TypeFloat || b.Type == TypeFloat {
		return a.Float() == b.Float()
	}
	return a.Int() == b.Int()
}

func isNumberLike(v Value) bool {
	return v.Type == TypeInt || v.Type == TypeFloat || v.Type == TypeBool
}
