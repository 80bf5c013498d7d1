// Package repl implements the interactive front end: it buffers continued
// lines, runs each submitted block against one persistent vm.State, and keeps
// the session alive across errors.
package repl

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"fortio.org/log"
	"github.com/goforj/godump"
	"github.com/peterh/liner"
	"golang.org/x/term"

	"github.com/agenthands/thorn/pkg/compiler/lexer"
	"github.com/agenthands/thorn/pkg/config"
	"github.com/agenthands/thorn/pkg/vm"
)

const (
	Version  = "0.0.1"
	Filename = "<thorn-repl>"
)

const helpText = `REPL specific commands:
    !exit:          Exit the REPL
    !help:          Print this help message
    !flush-stack:   Flushes/Cleans the stack
    !stack:         Print the stack and variables
    !dump:          Dump the stack and variables in detail
End a line with \ to continue the input on the next line.`

// Session is one interactive session.
type Session struct {
	State  *vm.State
	Config *config.Config
	Out    io.Writer

	pending []string
}

// NewSession creates a session with a fresh State writing to out.
func NewSession(cfg *config.Config, out io.Writer) *Session {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Session{
		State:  vm.NewState(),
		Config: cfg,
		Out:    out,
	}
}

// Prompt returns the prompt for the next input line.
func (s *Session) Prompt() string {
	if len(s.pending) > 0 {
		return s.Config.ContinuationPrompt
	}
	return s.Config.Prompt
}

// Banner prints the startup banner.
func (s *Session) Banner() {
	fmt.Fprintf(s.Out, "Thorn Programming Language (%s)\n", Version)
	fmt.Fprintln(s.Out, "To exit, use '!exit'. To get help about REPL, use '!help'")
}

// Discard drops any buffered continuation lines.
func (s *Session) Discard() {
	s.pending = s.pending[:0]
}

// Feed processes one line of input. It returns false when the session should
// end.
func (s *Session) Feed(line string) bool {
	if len(s.pending) == 0 {
		switch strings.TrimSpace(line) {
		case "!exit":
			fmt.Fprintln(s.Out, "Exiting...")
			return false
		case "!help":
			fmt.Fprintln(s.Out, helpText)
			return true
		case "!flush-stack":
			s.State.Flush()
			return true
		case "!stack":
			s.printState()
			return true
		case "!dump":
			fmt.Fprint(s.Out, godump.DumpStr(s.State.Stack, s.State.Variables))
			return true
		}
	}

	if strings.HasSuffix(line, `\`) {
		s.pending = append(s.pending, strings.TrimSuffix(line, `\`))
		return true
	}

	block := append(s.pending, line)
	s.pending = nil
	if err := s.Submit(block); err != nil {
		log.LogVf("block of %d line(s) failed: %v", len(block), err)
		s.printState()
		fmt.Fprintln(s.Out, "error:", err)
	}
	return true
}

// Submit tokenizes and runs a block of lines against the session state.
func (s *Session) Submit(lines []string) error {
	toks, err := lexer.Tokenize(Filename, lines)
	if err != nil {
		return err
	}
	m := vm.NewMachine(Filename, toks, s.State)
	m.Out = s.Out
	m.MaxStack = s.Config.MaxStack
	return m.Run()
}

func (s *Session) printState() {
	items := make([]string, len(s.State.Stack))
	for i, v := range s.State.Stack {
		items[i] = v.Repr()
	}
	fmt.Fprintf(s.Out, "stack: [%s]\n", strings.Join(items, ", "))

	names := make([]string, 0, len(s.State.Variables))
	for name := range s.State.Variables {
		names = append(names, name)
	}
	sort.Strings(names)
	for i, name := range names {
		names[i] = name + ": " + s.State.Variables[name].Repr()
	}
	fmt.Fprintf(s.Out, "variables: {%s}\n", strings.Join(names, ", "))
}

// Run reads lines from in until EOF or !exit without prompting or a banner.
// A block left open by a trailing \ at EOF is still submitted.
func (s *Session) Run(in io.Reader) error {
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		if !s.Feed(sc.Text()) {
			return nil
		}
	}
	if len(s.pending) > 0 {
		s.Feed("")
	}
	return sc.Err()
}

// RunTerminal drives the session with line editing and persistent history.
func (s *Session) RunTerminal() error {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if path := s.Config.HistoryPath(); path != "" {
		if f, err := os.Open(path); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			if f, err := os.Create(path); err == nil {
				_, _ = ln.WriteHistory(f)
				_ = f.Close()
			}
		}()
	}

	for {
		line, err := ln.Prompt(s.Prompt())
		if errors.Is(err, liner.ErrPromptAborted) {
			s.Discard()
			continue
		}
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(s.Out)
			return nil
		}
		if err != nil {
			return err
		}
		if strings.TrimSpace(line) != "" {
			ln.AppendHistory(line)
		}
		if !s.Feed(line) {
			return nil
		}
	}
}

// Start runs the session on in, using line editing when in is a terminal.
// The banner is printed only in that case; piped input gets no banner.
func (s *Session) Start(in *os.File) error {
	if !term.IsTerminal(int(in.Fd())) {
		return s.Run(in)
	}
	if s.Config.Banner {
		s.Banner()
	}
	return s.RunTerminal()
}
