package vm

import "github.com/agenthands/thorn/pkg/compiler/lexer"

// arity is the number of stack values an instruction consumes. Kinds missing
// from the table (literals, comments, EOF) consume nothing.
var arity = map[lexer.Kind]int{
	lexer.KindDup:  1,
	lexer.KindSwap: 2,
	lexer.KindPut:  1,
	lexer.KindSet:  2,
	lexer.KindGet:  1,

	lexer.KindEq:  2,
	lexer.KindNot: 1,
	lexer.KindGt:  2,
	lexer.KindGe:  2,
	lexer.KindLt:  2,
	lexer.KindLe:  2,
	lexer.KindOr:  2,
	lexer.KindAnd: 2,

	lexer.KindAdd: 2,
	lexer.KindSub: 2,
	lexer.KindMul: 2,
	lexer.KindDiv: 2,
	lexer.KindRem: 2,
}

// Arity returns how many stack values the instruction kind consumes.
func Arity(k lexer.Kind) int {
	return arity[k]
}
