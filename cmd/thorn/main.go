package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"fortio.org/log"

	"github.com/agenthands/thorn/pkg/compiler/lexer"
	"github.com/agenthands/thorn/pkg/config"
	"github.com/agenthands/thorn/pkg/loader"
	"github.com/agenthands/thorn/pkg/repl"
	"github.com/agenthands/thorn/pkg/vm"
)

const usage = `Usage: thorn [flags] [command]

Commands:
  repl            Start the interactive REPL (default)
  run <file>      Run a source file
  <file>          Same as run <file>
  tokens <file>   Print the tokens of a source file
  version         Print the version

Flags:
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("thorn", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}
	configPath := fs.String("config", "", "Path to a YAML config file (default ~/"+config.FileName+")")
	trace := fs.Bool("trace", false, "Log every dispatched instruction to stderr")
	maxStack := fs.Int("max-stack", -1, "Maximum stack depth, 0 for unbounded")
	root := fs.String("root", "", "Refuse to load source files outside this directory")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.Load(*configPath)
	} else {
		cfg, err = config.LoadDefault()
	}
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	if *trace {
		cfg.Trace = true
	}
	if *maxStack >= 0 {
		cfg.MaxStack = *maxStack
	}
	if *root != "" {
		cfg.SourceRoot = *root
	}

	log.SetOutput(stderr)
	if cfg.Trace {
		log.SetLogLevel(log.Verbose)
	} else {
		log.SetLogLevel(log.Warning)
	}

	rest := fs.Args()
	cmd := "repl"
	if len(rest) > 0 {
		cmd = rest[0]
	}

	switch cmd {
	case "repl":
		return startREPL(cfg, stdin, stdout, stderr)
	case "version":
		fmt.Fprintf(stdout, "thorn %s\n", repl.Version)
		return 0
	case "help":
		fs.Usage()
		return 0
	case "run", "tokens":
		if len(rest) != 2 {
			fmt.Fprintf(stderr, "Usage: thorn %s <file>\n", cmd)
			return 2
		}
		if cmd == "tokens" {
			return printTokens(cfg, rest[1], stdout, stderr)
		}
		return runFile(cfg, rest[1], stdout, stderr)
	default:
		if len(rest) != 1 {
			fs.Usage()
			return 2
		}
		return runFile(cfg, rest[0], stdout, stderr)
	}
}

func startREPL(cfg *config.Config, stdin io.Reader, stdout, stderr io.Writer) int {
	session := repl.NewSession(cfg, stdout)

	var err error
	if f, ok := stdin.(*os.File); ok {
		err = session.Start(f)
	} else {
		err = session.Run(stdin)
	}
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

func tokenize(cfg *config.Config, path string) ([]lexer.Token, error) {
	lines, err := loader.New(cfg.SourceRoot, cfg.MaxSourceBytes).ReadLines(path)
	if err != nil {
		return nil, err
	}
	return lexer.Tokenize(path, lines)
}

func runFile(cfg *config.Config, path string, stdout, stderr io.Writer) int {
	toks, err := tokenize(cfg, path)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	m := vm.NewMachine(path, toks, vm.NewState())
	m.Out = stdout
	m.MaxStack = cfg.MaxStack
	if err := m.Run(); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

func printTokens(cfg *config.Config, path string, stdout, stderr io.Writer) int {
	toks, err := tokenize(cfg, path)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	for _, tok := range toks {
		fmt.Fprintln(stdout, tok)
	}
	return 0
}
