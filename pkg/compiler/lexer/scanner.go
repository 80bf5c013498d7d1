package lexer

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/agenthands/thorn/pkg/core/value"
)

var (
	ErrUnknownWord      = errors.New("unknown word")
	ErrUnmatchedBracket = errors.New("unmatched bracket")
	ErrIntegerRange     = errors.New("integer literal out of range")
)

// LexicalError is a tokenization failure tied to a source position.
type LexicalError struct {
	Filename string
	Line     int
	Column   int
	Err      error
}

func (e *LexicalError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %v", e.Filename, e.Line, e.Column, e.Err)
}

func (e *LexicalError) Unwrap() error { return e.Err }

// Tokenize converts source lines into tokens, terminated by a single EOF
// token placed just past the end of the last line. The first malformed word
// or unmatched bracket aborts the whole call.
func Tokenize(filename string, lines []string) ([]Token, error) {
	s := NewScanner(filename)
	tokens := make([]Token, 0, len(lines)*4+1)
	eof := Token{Kind: KindEOF, Line: 1, Column: 1}

	for i, line := range lines {
		s.Reset(line, i+1)
		for {
			tok, err := s.Next()
			if err != nil {
				return nil, err
			}
			if tok.Kind == KindEOF {
				eof = tok
				break
			}
			tokens = append(tokens, tok)
		}
	}

	return append(tokens, eof), nil
}

// Scanner performs lexical analysis on one source line at a time.
type Scanner struct {
	filename string
	source   []rune
	cursor   int
	line     int
}

// NewScanner creates a scanner that reports errors against filename.
func NewScanner(filename string) *Scanner {
	return &Scanner{filename: filename, line: 1}
}

// Reset re-initializes the scanner with the next line of source.
func (s *Scanner) Reset(line string, lineno int) {
	s.source = []rune(strings.TrimRight(line, "\r\n"))
	s.cursor = 0
	s.line = lineno
}

// Next returns the next token on the current line, or an EOF token once the
// line is exhausted.
func (s *Scanner) Next() (Token, error) {
	s.skipWhitespace()

	if s.cursor >= len(s.source) {
		return Token{Kind: KindEOF, Line: s.line, Column: s.cursor + 1}, nil
	}

	start := s.cursor
	switch s.source[s.cursor] {
	case '[':
		text, err := s.scanBalanced('[', ']')
		if err != nil {
			return Token{}, err
		}
		return Token{Kind: KindString, Value: value.String(text), Line: s.line, Column: start + 1}, nil
	case '(':
		text, err := s.scanBalanced('(', ')')
		if err != nil {
			return Token{}, err
		}
		return Token{Kind: KindComment, Value: value.String(text), Line: s.line, Column: start + 1}, nil
	}

	for s.cursor < len(s.source) && !unicode.IsSpace(s.source[s.cursor]) {
		s.cursor++
	}
	return s.classify(string(s.source[start:s.cursor]), start+1)
}

func (s *Scanner) skipWhitespace() {
	for s.cursor < len(s.source) && unicode.IsSpace(s.source[s.cursor]) {
		s.cursor++
	}
}

// scanBalanced consumes a bracketed span starting at the cursor, counting
// nested open/close pairs of the same kind, and returns the interior text.
func (s *Scanner) scanBalanced(open, closing rune) (string, error) {
	start := s.cursor
	depth := 0
	for i := start; i < len(s.source); i++ {
		switch s.source[i] {
		case open:
			depth++
		case closing:
			depth--
			if depth == 0 {
				s.cursor = i + 1
				return string(s.source[start+1 : i]), nil
			}
		}
	}
	return "", s.errorAt(start+1, fmt.Errorf("%w '%c'", ErrUnmatchedBracket, open))
}

func (s *Scanner) classify(word string, col int) (Token, error) {
	tok := Token{Line: s.line, Column: col}

	if kind, ok := keywords[word]; ok {
		tok.Kind = kind
		return tok, nil
	}

	switch {
	case isInteger(word):
		i, err := strconv.ParseInt(word, 10, 64)
		if err != nil {
			return Token{}, s.errorAt(col, fmt.Errorf("%w: '%s'", ErrIntegerRange, word))
		}
		tok.Kind, tok.Value = KindInt, value.Int(i)
	case isDecimal(word):
		// Overflow yields ±Inf alongside ErrRange; the infinity is kept.
		f, _ := strconv.ParseFloat(word, 64)
		tok.Kind, tok.Value = KindFloat, value.Float(f)
	case word == "true" || word == "false":
		tok.Kind, tok.Value = KindBool, value.Bool(word == "true")
	case len(word) > 1 && word[0] == ':' && allIdentChars(word[1:]):
		tok.Kind, tok.Value = KindKeyword, value.Keyword(word)
	case isAlpha(word[0]) && allIdentChars(word[1:]):
		tok.Kind, tok.Value = KindIdent, value.Ident(word)
	default:
		return Token{}, s.errorAt(col, fmt.Errorf("%w '%s'", ErrUnknownWord, word))
	}
	return tok, nil
}

func (s *Scanner) errorAt(col int, err error) error {
	return &LexicalError{Filename: s.filename, Line: s.line, Column: col, Err: err}
}

// isInteger matches [+-]?[0-9]+
func isInteger(w string) bool {
	w = trimSign(w)
	return len(w) > 0 && allDigits(w)
}

// isDecimal matches [+-]?[0-9]+\.[0-9]+
func isDecimal(w string) bool {
	whole, frac, ok := strings.Cut(trimSign(w), ".")
	return ok && len(whole) > 0 && len(frac) > 0 && allDigits(whole) && allDigits(frac)
}

func trimSign(w string) string {
	if len(w) > 0 && (w[0] == '+' || w[0] == '-') {
		return w[1:]
	}
	return w
}

func allDigits(w string) bool {
	for i := 0; i < len(w); i++ {
		if !isDigit(w[i]) {
			return false
		}
	}
	return true
}

func allIdentChars(w string) bool {
	for i := 0; i < len(w); i++ {
		ch := w[i]
		if !isAlpha(ch) && !isDigit(ch) && ch != '_' && ch != '-' {
			return false
		}
	}
	return true
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isAlpha(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}
