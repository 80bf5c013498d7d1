package lexer

import (
	"strconv"

	"github.com/agenthands/thorn/pkg/core/value"
)

// Kind represents the type of token identified by the scanner.
type Kind uint8

const (
	KindEOF     Kind = iota
	KindDup          // dup
	KindSwap         // swp
	KindPut          // put
	KindSet          // set
	KindGet          // get
	KindComment      // ( ... )

	KindEq  // ==
	KindNot // !
	KindGt  // >
	KindGe  // >=
	KindLt  // <
	KindLe  // <=
	KindOr  // ||
	KindAnd // &&

	KindAdd // +
	KindSub // -
	KindMul // *
	KindDiv // /
	KindRem // %

	KindInt
	KindFloat
	KindString // [ ... ]
	KindBool
	KindKeyword // :name
	KindIdent
)

var kindNames = [...]string{
	KindEOF:     "EOF",
	KindDup:     "DUP",
	KindSwap:    "SWP",
	KindPut:     "PUT",
	KindSet:     "SET",
	KindGet:     "GET",
	KindComment: "COMMENT",
	KindEq:      "EQ",
	KindNot:     "NOT",
	KindGt:      "GT",
	KindGe:      "GE",
	KindLt:      "LT",
	KindLe:      "LE",
	KindOr:      "OR",
	KindAnd:     "AND",
	KindAdd:     "ADD",
	KindSub:     "SUB",
	KindMul:     "MUL",
	KindDiv:     "DIV",
	KindRem:     "REM",
	KindInt:     "INT",
	KindFloat:   "FLOAT",
	KindString:  "STRING",
	KindBool:    "BOOL",
	KindKeyword: "KEY",
	KindIdent:   "ID",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// IsLiteral reports whether tokens of this kind push their payload.
func (k Kind) IsLiteral() bool {
	return k >= KindInt && k <= KindIdent
}

// IsArithmetic reports whether the kind is one of + - * / %.
func (k Kind) IsArithmetic() bool {
	return k >= KindAdd && k <= KindRem
}

// IsComparison reports whether the kind is a comparison or boolean operator.
func (k Kind) IsComparison() bool {
	return k >= KindEq && k <= KindAnd
}

// keywords is the fixed instruction table. Words are matched exactly.
var keywords = map[string]Kind{
	"dup": KindDup,
	"swp": KindSwap,
	"put": KindPut,
	"set": KindSet,
	"get": KindGet,
	"==":  KindEq,
	"!":   KindNot,
	">":   KindGt,
	">=":  KindGe,
	"<":   KindLt,
	"<=":  KindLe,
	"||":  KindOr,
	"&&":  KindAnd,
	"+":   KindAdd,
	"-":   KindSub,
	"*":   KindMul,
	"/":   KindDiv,
	"%":   KindRem,
}

// Token represents a lexical unit and its source position.
// Value holds the decoded payload of literals and comments; it is the zero
// Value for instructions. Line and Column are 1-based, Column counts runes.
type Token struct {
	Kind   Kind
	Value  value.Value
	Line   int
	Column int
}

func (t Token) String() string {
	pos := strconv.Itoa(t.Line) + ":" + strconv.Itoa(t.Column) + ": " + t.Kind.String()
	if t.Kind.IsLiteral() || t.Kind == KindComment {
		return pos + "(" + t.Value.Format() + ")"
	}
	return pos
}
