package vm

import "github.com/agenthands/thorn/pkg/core/value"

// State is the mutable stack and variable mapping a program runs against.
// It outlives individual runs: an interactive session keeps feeding the same
// State to successive machines.
type State struct {
	Stack     []value.Value
	Variables map[string]value.Value
}

// NewState returns an empty runtime state.
func NewState() *State {
	return &State{
		Stack:     make([]value.Value, 0, 16),
		Variables: make(map[string]value.Value),
	}
}

// Depth returns the number of values on the stack.
func (s *State) Depth() int {
	return len(s.Stack)
}

// Push adds a value to the top of the stack.
func (s *State) Push(v value.Value) {
	s.Stack = append(s.Stack, v)
}

// Pop removes and returns the top value from the stack. Panics on underflow.
func (s *State) Pop() value.Value {
	if len(s.Stack) == 0 {
		panic(ErrStackUnderflow)
	}
	v := s.Stack[len(s.Stack)-1]
	s.Stack[len(s.Stack)-1] = value.Value{}
	s.Stack = s.Stack[:len(s.Stack)-1]
	return v
}

// Peek returns the value n slots below the top (0 is the top). Panics on underflow.
func (s *State) Peek(n int) value.Value {
	if n >= len(s.Stack) {
		panic(ErrStackUnderflow)
	}
	return s.Stack[len(s.Stack)-1-n]
}

// Lookup returns the value bound to name.
func (s *State) Lookup(name string) (value.Value, bool) {
	v, ok := s.Variables[name]
	return v, ok
}

// Bind sets name to v, replacing any earlier binding.
func (s *State) Bind(name string, v value.Value) {
	if s.Variables == nil {
		s.Variables = make(map[string]value.Value)
	}
	s.Variables[name] = v
}

// Flush empties the stack and leaves the variables alone.
func (s *State) Flush() {
	clear(s.Stack)
	s.Stack = s.Stack[:0]
}

// Reset clears the state for reuse.
func (s *State) Reset() {
	s.Flush()
	clear(s.Variables)
}
