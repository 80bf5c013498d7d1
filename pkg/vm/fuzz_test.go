package vm_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/agenthands/thorn/pkg/compiler/lexer"
	"github.com/agenthands/thorn/pkg/vm"
)

func FuzzRun(f *testing.F) {
	f.Add("1 2 + put")
	f.Add("x 10 set x get put")
	f.Add("[a [b] c] (note) :k true ! put")
	f.Add("-9223372036854775808 -1 / 0 %")
	f.Add("1.5 0 % swp dup")

	f.Fuzz(func(t *testing.T, src string) {
		toks, err := lexer.Tokenize("fuzz", strings.Split(src, "\n"))
		if err != nil {
			var lexErr *lexer.LexicalError
			if !errors.As(err, &lexErr) {
				t.Fatalf("tokenize returned %T: %v", err, err)
			}
			return
		}

		m := vm.NewMachine("fuzz", toks, vm.NewState())
		m.Out = &bytes.Buffer{}
		m.MaxStack = 64
		if err := m.Run(); err != nil {
			var rtErr *vm.RuntimeError
			if !errors.As(err, &rtErr) {
				t.Fatalf("run returned %T: %v", err, err)
			}
		}
		if !m.Halted() {
			t.Fatal("machine not halted after Run")
		}
	})
}
