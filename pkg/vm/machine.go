package vm

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"fortio.org/log"

	"github.com/agenthands/thorn/pkg/compiler/lexer"
	"github.com/agenthands/thorn/pkg/core/value"
)

var (
	ErrStackOverflow   = errors.New("stack overflow")
	ErrStackUnderflow  = errors.New("stack underflow")
	ErrTypeMismatch    = errors.New("type mismatch")
	ErrNotIdentifier   = errors.New("not an identifier")
	ErrUnsetVariable   = errors.New("variable not set")
	ErrNotPrintable    = errors.New("value is not printable")
	ErrDivisionByZero  = errors.New("division by zero")
	ErrIntegerOverflow = errors.New("integer overflow")
	ErrHalted          = errors.New("vm: machine already halted")
)

// RuntimeError is an execution failure tied to the token that caused it.
type RuntimeError struct {
	Filename string
	Line     int
	Column   int
	Err      error
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %v", e.Filename, e.Line, e.Column, e.Err)
}

func (e *RuntimeError) Unwrap() error { return e.Err }

// Machine executes one token stream against a State.
// It walks the tokens with an index cursor and has two states: running, and
// halted once it reaches EOF or fails. A halted machine does not resume.
type Machine struct {
	Filename string
	Tokens   []lexer.Token
	IP       int // index of the token being executed

	State *State

	// Out receives put output. Defaults to os.Stdout.
	Out io.Writer
	// MaxStack bounds the stack depth when positive.
	MaxStack int

	halted bool
}

// NewMachine prepares a machine for tokens produced from filename.
func NewMachine(filename string, tokens []lexer.Token, state *State) *Machine {
	return &Machine{
		Filename: filename,
		Tokens:   tokens,
		State:    state,
		Out:      os.Stdout,
	}
}

// Run executes tokens against state, writing put output to stdout.
func Run(filename string, tokens []lexer.Token, state *State) error {
	return NewMachine(filename, tokens, state).Run()
}

// Halted reports whether the machine has stopped.
func (m *Machine) Halted() bool {
	return m.halted
}

// Run executes instructions until EOF or the first error. Stack and variable
// changes made before a failure are left in the State. Each dispatch is
// traced when the log level is verbose.
func (m *Machine) Run() (err error) {
	if m.halted {
		return ErrHalted
	}
	if m.State == nil {
		m.State = NewState()
	}
	if m.Out == nil {
		m.Out = os.Stdout
	}

	defer func() {
		m.halted = true
		if r := recover(); r != nil {
			e, ok := r.(error)
			if !ok || !(errors.Is(e, ErrStackOverflow) || errors.Is(e, ErrStackUnderflow)) {
				panic(r)
			}
			tok := m.current()
			err = m.fail(tok, fmt.Errorf("(%s) %w", tok.Kind, e))
		}
	}()

	for ; m.IP < len(m.Tokens); m.IP++ {
		tok := m.Tokens[m.IP]
		if tok.Kind == lexer.KindEOF {
			return nil
		}

		if log.LogVerbose() {
			log.LogVf("dispatch %s at %d:%d depth %d", tok.Kind, tok.Line, tok.Column, m.State.Depth())
		}

		if err := m.step(tok); err != nil {
			return m.fail(tok, err)
		}
	}
	return nil
}

func (m *Machine) current() lexer.Token {
	if m.IP < len(m.Tokens) {
		return m.Tokens[m.IP]
	}
	return lexer.Token{Kind: lexer.KindEOF}
}

func (m *Machine) fail(tok lexer.Token, err error) error {
	log.LogVf("halt at %s: %v", tok.Kind, err)
	return &RuntimeError{Filename: m.Filename, Line: tok.Line, Column: tok.Column, Err: err}
}

func (m *Machine) push(v value.Value) {
	if m.MaxStack > 0 && m.State.Depth() >= m.MaxStack {
		panic(ErrStackOverflow)
	}
	m.State.Push(v)
}

func (m *Machine) step(tok lexer.Token) error {
	if need := Arity(tok.Kind); m.State.Depth() < need {
		if m.State.Depth() == 0 {
			return fmt.Errorf("(%s) %w: stack is empty", tok.Kind, ErrStackUnderflow)
		}
		return fmt.Errorf("(%s) %w: need %d values, have %d", tok.Kind, ErrStackUnderflow, need, m.State.Depth())
	}

	switch {
	case tok.Kind.IsLiteral():
		m.push(tok.Value)
		return nil
	case tok.Kind.IsArithmetic():
		return m.arithmetic(tok.Kind)
	case tok.Kind.IsComparison():
		return m.compare(tok.Kind)
	}

	switch tok.Kind {
	case lexer.KindComment:
		return nil

	case lexer.KindDup:
		m.push(m.State.Peek(0))

	case lexer.KindSwap:
		n := len(m.State.Stack)
		m.State.Stack[n-1], m.State.Stack[n-2] = m.State.Stack[n-2], m.State.Stack[n-1]

	case lexer.KindPut:
		v := m.State.Pop()
		if !v.IsPrintable() {
			return fmt.Errorf("(%s) %w: '%s' of type %s", tok.Kind, ErrNotPrintable, v.Format(), v.Type)
		}
		if _, err := fmt.Fprintln(m.Out, v.Format()); err != nil {
			return fmt.Errorf("(%s) %w", tok.Kind, err)
		}

	case lexer.KindGet:
		id := m.State.Pop()
		if id.Type != value.TypeIdent {
			return fmt.Errorf("(%s) %w: '%s' of type %s", tok.Kind, ErrNotIdentifier, id.Format(), id.Type)
		}
		v, ok := m.State.Lookup(id.Text)
		if !ok {
			return fmt.Errorf("(%s) %w: '%s'", tok.Kind, ErrUnsetVariable, id.Text)
		}
		m.push(v)

	case lexer.KindSet:
		return m.store(tok.Kind)

	default:
		return fmt.Errorf("vm: unknown token kind %s", tok.Kind)
	}
	return nil
}

// store binds a value to an identifier. The identifier is normally on top
// (10 x set); when the top is not an identifier but the value beneath it is,
// the operands are taken in the other order (x 10 set).
func (m *Machine) store(op lexer.Kind) error {
	top := m.State.Pop()
	if top.Type == value.TypeIdent {
		m.State.Bind(top.Text, m.State.Pop())
		return nil
	}
	if below := m.State.Peek(0); below.Type == value.TypeIdent {
		m.State.Pop()
		m.State.Bind(below.Text, top)
		return nil
	}
	return fmt.Errorf("(%s) %w: can't assign to '%s' of type %s", op, ErrNotIdentifier, top.Format(), top.Type)
}

func (m *Machine) arithmetic(op lexer.Kind) error {
	second := m.State.Pop()
	if !second.IsNumeric() {
		return notNumeric(op, second)
	}
	first := m.State.Pop()
	if !first.IsNumeric() {
		return notNumeric(op, first)
	}

	// A float first operand forces a float result; otherwise the result
	// takes the type of the second operand.
	resultType := second.Type
	if first.Type == value.TypeFloat {
		resultType = value.TypeFloat
	}

	if resultType == value.TypeFloat {
		a, b := first.Float(), second.Float()
		var r float64
		switch op {
		case lexer.KindAdd:
			r = a + b
		case lexer.KindSub:
			r = a - b
		case lexer.KindMul:
			r = a * b
		case lexer.KindDiv:
			if b == 0 {
				return fmt.Errorf("(%s) %w", op, ErrDivisionByZero)
			}
			r = a / b
		case lexer.KindRem:
			if b == 0 {
				return fmt.Errorf("(%s) %w", op, ErrDivisionByZero)
			}
			r = math.Mod(a, b)
			if r != 0 && (r < 0) != (b < 0) {
				r += b
			}
		}
		m.push(value.Float(r))
		return nil
	}

	a, b := first.Int(), second.Int()
	var r int64
	switch op {
	case lexer.KindAdd:
		r = a + b
		if (b > 0 && r < a) || (b < 0 && r > a) {
			return fmt.Errorf("(%s) %w", op, ErrIntegerOverflow)
		}
	case lexer.KindSub:
		r = a - b
		if (b > 0 && r > a) || (b < 0 && r < a) {
			return fmt.Errorf("(%s) %w", op, ErrIntegerOverflow)
		}
	case lexer.KindMul:
		r = a * b
		if a != 0 && (r/a != b || (a == -1 && b == math.MinInt64)) {
			return fmt.Errorf("(%s) %w", op, ErrIntegerOverflow)
		}
	case lexer.KindDiv:
		if b == 0 {
			return fmt.Errorf("(%s) %w", op, ErrDivisionByZero)
		}
		if a == math.MinInt64 && b == -1 {
			return fmt.Errorf("(%s) %w", op, ErrIntegerOverflow)
		}
		r = a / b
		if a%b != 0 && (a < 0) != (b < 0) {
			r--
		}
	case lexer.KindRem:
		if b == 0 {
			return fmt.Errorf("(%s) %w", op, ErrDivisionByZero)
		}
		r = a % b
		if r != 0 && (r < 0) != (b < 0) {
			r += b
		}
	}
	m.push(value.Int(r))
	return nil
}

func (m *Machine) compare(op lexer.Kind) error {
	if op == lexer.KindNot {
		v := m.State.Pop()
		if v.Type != value.TypeBool {
			return fmt.Errorf("(%s) %w: '%s' of type %s is not a boolean", op, ErrTypeMismatch, v.Format(), v.Type)
		}
		m.push(value.Bool(!v.Bool()))
		return nil
	}

	second := m.State.Pop()
	first := m.State.Pop()
	for _, v := range []value.Value{first, second} {
		if !v.IsComparable() {
			return fmt.Errorf("(%s) %w: '%s' of type %s can't be compared", op, ErrTypeMismatch, v.Format(), v.Type)
		}
	}

	var r bool
	switch op {
	case lexer.KindEq:
		r = value.Equal(first, second)
	case lexer.KindOr, lexer.KindAnd:
		for _, v := range []value.Value{first, second} {
			if v.Type != value.TypeBool {
				return fmt.Errorf("(%s) %w: '%s' of type %s is not a boolean", op, ErrTypeMismatch, v.Format(), v.Type)
			}
		}
		if op == lexer.KindOr {
			r = first.Bool() || second.Bool()
		} else {
			r = first.Bool() && second.Bool()
		}
	default:
		for _, v := range []value.Value{first, second} {
			if !v.IsNumeric() {
				return notNumeric(op, v)
			}
		}
		r = order(op, first, second)
	}
	m.push(value.Bool(r))
	return nil
}

func order(op lexer.Kind, a, b value.Value) bool {
	if a.Type == value.TypeInt && b.Type == value.TypeInt {
		x, y := a.Int(), b.Int()
		switch op {
		case lexer.KindGt:
			return x > y
		case lexer.KindGe:
			return x >= y
		case lexer.KindLt:
			return x < y
		default:
			return x <= y
		}
	}
	x, y := a.Float(), b.Float()
	switch op {
	case lexer.KindGt:
		return x > y
	case lexer.KindGe:
		return x >= y
	case lexer.KindLt:
		return x < y
	default:
		return x <= y
	}
}

func notNumeric(op lexer.Kind, v value.Value) error {
	return fmt.Errorf("(%s) %w: value '%s' of type %s is not numeric (int or float)", op, ErrTypeMismatch, v.Format(), v.Type)
}
