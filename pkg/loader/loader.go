package loader

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	ErrPathEscape   = errors.New("loader: path escape violation")
	ErrFileTooLarge = errors.New("loader: file size limit exceeded")
)

// DefaultMaxFileSize bounds source files when no limit is configured.
const DefaultMaxFileSize = 8 * 1024 * 1024

// Loader reads program files into source lines for the tokenizer.
type Loader struct {
	// Root, when set, jails every path beneath it.
	Root        string
	MaxFileSize int
}

func New(root string, maxFileSize int) *Loader {
	if maxFileSize <= 0 {
		maxFileSize = DefaultMaxFileSize
	}
	l := &Loader{MaxFileSize: maxFileSize}
	if root != "" {
		l.Root, _ = filepath.Abs(root)
	}
	return l
}

// Resolve maps path onto the filesystem, enforcing the root jail.
func (l *Loader) Resolve(path string) (string, error) {
	if l.Root == "" {
		return filepath.Clean(path), nil
	}
	cleanPath := filepath.Join(l.Root, filepath.Clean(path))
	if filepath.IsAbs(path) {
		cleanPath = filepath.Clean(path)
	}
	if cleanPath != l.Root && !strings.HasPrefix(cleanPath, l.Root+string(filepath.Separator)) {
		return "", ErrPathEscape
	}
	return cleanPath, nil
}

// ReadLines returns the file's lines without their terminators.
func (l *Loader) ReadLines(path string) ([]string, error) {
	resolved, err := l.Resolve(path)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return nil, err
	}
	if info.Size() > int64(l.MaxFileSize) {
		return nil, fmt.Errorf("%w: %s is %d bytes", ErrFileTooLarge, path, info.Size())
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		return nil, err
	}
	return SplitLines(data)
}

// SplitLines breaks source text into lines, accepting \n and \r\n endings.
func SplitLines(data []byte) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), len(data)+1)
	for sc.Scan() {
		lines = append(lines, strings.TrimSuffix(sc.Text(), "\r"))
	}
	return lines, sc.Err()
}
